package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countedJob records its runs and can be told to fail.
type countedJob struct {
	name     string
	schedule string
	fail     error
	runs     atomic.Int32
}

func (j *countedJob) Name() string     { return j.name }
func (j *countedJob) Schedule() string { return j.schedule }
func (j *countedJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.fail
}

// gaugedJob tracks how many runs overlap, to verify ticks are skipped
// rather than stacked.
type gaugedJob struct {
	concurrent atomic.Int32
	peak       atomic.Int32
}

func (j *gaugedJob) Name() string     { return "dedup_purge" }
func (j *gaugedJob) Schedule() string { return "*/5 * * * *" }
func (j *gaugedJob) Run(context.Context) error {
	c := j.concurrent.Add(1)
	for {
		old := j.peak.Load()
		if c <= old || j.peak.CompareAndSwap(old, c) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	j.concurrent.Add(-1)
	return nil
}

func TestScheduler_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	s := NewScheduler(slog.Default())

	if err := s.RegisterJob(&countedJob{name: "memory_sweep", schedule: "0 * * * *"}); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}
	if err := s.RegisterJob(&countedJob{name: "memory_sweep", schedule: "0 * * * *"}); err == nil {
		t.Fatal("RegisterJob() error = nil for duplicate name")
	}
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	s := NewScheduler(slog.Default())
	_ = s.RegisterJob(&countedJob{name: "memory_sweep", schedule: "every hour"})

	if err := s.Start(); err == nil {
		t.Fatal("Start() error = nil for an unparseable schedule")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(slog.Default())
	_ = s.RegisterJob(&countedJob{name: "memory_sweep", schedule: "0 * * * *"})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestScheduler_NilLogger(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil)
	if s.logger == nil {
		t.Fatal("logger not defaulted")
	}
}

func TestScheduler_SkipsOverlappingTicks(t *testing.T) {
	t.Parallel()

	job := &gaugedJob{}
	s := NewScheduler(slog.Default())
	if err := s.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	e := s.entries["dedup_purge"]
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.tick(context.Background(), e)
		}()
	}
	wg.Wait()

	if peak := job.peak.Load(); peak > 1 {
		t.Errorf("peak concurrent runs = %d, want at most 1", peak)
	}
	if job.concurrent.Load() != 0 {
		t.Error("a run is still marked in flight after all ticks returned")
	}
}

func TestScheduler_TickAfterJobError(t *testing.T) {
	t.Parallel()

	job := &countedJob{name: "memory_sweep", schedule: "0 * * * *", fail: errors.New("sweep failed")}
	s := NewScheduler(slog.Default())
	if err := s.RegisterJob(job); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	// A failing run must release the in-flight lock so the next tick fires.
	e := s.entries["memory_sweep"]
	s.tick(context.Background(), e)
	s.tick(context.Background(), e)

	if runs := job.runs.Load(); runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler(slog.Default())
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
