package client

import (
	"strings"
	"sync"

	"taskhub/domain/dto"
)

// taskCache holds the authenticated user's tasks in server order. Every
// change notifies subscribers with an independent snapshot copy, so a slow or
// misbehaving subscriber cannot corrupt the cache.
type taskCache struct {
	mu          sync.RWMutex
	tasks       []dto.TaskResponse
	subscribers map[int]func([]dto.TaskResponse)
	nextID      int
}

func newTaskCache() *taskCache {
	return &taskCache{
		subscribers: make(map[int]func([]dto.TaskResponse)),
	}
}

func (tc *taskCache) replace(tasks []dto.TaskResponse) {
	tc.mu.Lock()
	tc.tasks = append([]dto.TaskResponse(nil), tasks...)
	subs := tc.collectSubscribers()
	tc.mu.Unlock()

	tc.notify(subs)
}

func (tc *taskCache) clear() {
	tc.mu.Lock()
	tc.tasks = nil
	subs := tc.collectSubscribers()
	tc.mu.Unlock()

	tc.notify(subs)
}

func (tc *taskCache) snapshot() []dto.TaskResponse {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return append([]dto.TaskResponse(nil), tc.tasks...)
}

func (tc *taskCache) filter(status, priority, search string) []dto.TaskResponse {
	search = strings.ToLower(search)

	tc.mu.RLock()
	defer tc.mu.RUnlock()

	out := make([]dto.TaskResponse, 0, len(tc.tasks))
	for _, t := range tc.tasks {
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (tc *taskCache) subscribe(fn func([]dto.TaskResponse)) int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	id := tc.nextID
	tc.nextID++
	tc.subscribers[id] = fn
	return id
}

func (tc *taskCache) unsubscribe(id int) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.subscribers, id)
}

// collectSubscribers must be called with tc.mu held. Each subscriber gets its
// own copy of the current task list.
func (tc *taskCache) collectSubscribers() []func() {
	calls := make([]func(), 0, len(tc.subscribers))
	for _, fn := range tc.subscribers {
		fn := fn
		snap := append([]dto.TaskResponse(nil), tc.tasks...)
		calls = append(calls, func() { fn(snap) })
	}
	return calls
}

func (tc *taskCache) notify(calls []func()) {
	for _, call := range calls {
		call()
	}
}
