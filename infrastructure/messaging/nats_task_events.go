package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"taskhub/domain/ports"
	natspkg "taskhub/infrastructure/nats"
)

// NATSTaskEvents implements ports.TaskEventPublisher over core NATS pub/sub.
// Events are fire-and-forget; consumers that care about durability can layer
// JetStream on the same subjects later.
type NATSTaskEvents struct {
	client *natspkg.Client
}

func NewNATSTaskEvents(client *natspkg.Client) ports.TaskEventPublisher {
	return &NATSTaskEvents{client: client}
}

func (p *NATSTaskEvents) TaskCreated(ctx context.Context, event ports.TaskEvent) error {
	return p.publish(natspkg.SubjectTaskCreated, event)
}

func (p *NATSTaskEvents) TaskUpdated(ctx context.Context, event ports.TaskEvent) error {
	return p.publish(natspkg.SubjectTaskUpdated, event)
}

func (p *NATSTaskEvents) TaskDeleted(ctx context.Context, event ports.TaskEvent) error {
	return p.publish(natspkg.SubjectTaskDeleted, event)
}

func (p *NATSTaskEvents) publish(subject string, event ports.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal task event: %w", err)
	}
	return p.client.Conn().Publish(subject, data)
}
