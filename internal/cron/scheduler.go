package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the standard five-field syntax used by the
// memory and dedup schedules in the config (minute hour dom month dow).
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler drives the background maintenance jobs on their cron
// schedules. A tick that fires while the previous run of the same job is
// still going is skipped rather than queued, so a slow sweep never piles
// up behind itself.
type Scheduler struct {
	mu      sync.Mutex
	runner  *cron.Cron
	entries map[string]*entry
	order   []*entry
	logger  *slog.Logger
	cancel  context.CancelFunc
}

// entry pairs a job with the mutex guarding its in-flight run.
type entry struct {
	job     Job
	running sync.Mutex
}

// NewScheduler creates an empty scheduler. A nil logger falls back to
// slog.Default().
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		entries: make(map[string]*entry),
		logger:  logger.With("component", "cron"),
	}
}

// RegisterJob adds a job under its unique name. Registration after Start
// has no effect on the running schedule, so wire every job first.
func (s *Scheduler) RegisterJob(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := j.Name()
	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("cron: job %q registered twice", name)
	}
	e := &entry{job: j}
	s.entries[name] = e
	s.order = append(s.order, e)
	return nil
}

// Start validates every schedule expression and begins ticking. Jobs run
// under a context that Stop cancels.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.runner = cron.New(cron.WithParser(scheduleParser))
	for _, e := range s.order {
		e := e
		_, err := s.runner.AddFunc(e.job.Schedule(), func() { s.tick(ctx, e) })
		if err != nil {
			cancel()
			return fmt.Errorf("cron: job %q has a bad schedule %q: %w",
				e.job.Name(), e.job.Schedule(), err)
		}
	}

	s.runner.Start()
	s.logger.Info("scheduler started", "jobs", len(s.order))
	return nil
}

// tick runs one scheduled firing of e. TryLock makes the skip-if-running
// check and the acquisition a single atomic step.
func (s *Scheduler) tick(ctx context.Context, e *entry) {
	name := e.job.Name()
	if !e.running.TryLock() {
		s.logger.Warn("previous run still in flight, skipping tick", "job", name)
		return
	}
	defer e.running.Unlock()

	if err := e.job.Run(ctx); err != nil {
		s.logger.Error("job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("job finished", "job", name)
}

// Stop cancels the job context and waits for in-flight runs to finish.
func (s *Scheduler) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.runner != nil {
		<-s.runner.Stop().Done()
		s.logger.Info("scheduler stopped")
	}
	return nil
}
