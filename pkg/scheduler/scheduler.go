package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"taskhub/pkg/logger"
)

// EventScheduler runs recurring maintenance jobs (session pruning).
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	IsRunning() bool
}

type jobInfo struct {
	cronExpr string
	job      *gocron.Job
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*jobInfo
	mu        sync.Mutex
	running   bool
}

func NewEventScheduler() EventScheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &GocronScheduler{
		scheduler: s,
		jobs:      make(map[string]*jobInfo),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started")
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		logger.Debug("Executing scheduled job", "job", id)
		task()
	})
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.jobs[id] = &jobInfo{cronExpr: cronExpr, job: job}
	logger.Info("Scheduled job added", "job", id, "cron", cronExpr)
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	s.scheduler.RemoveByReference(info.job)
	delete(s.jobs, id)
	return nil
}
