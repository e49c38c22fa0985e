package cron

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/memory"
	"github.com/tripflow/tripflow/internal/provider"
)

func TestMemorySweepJob_Name(t *testing.T) {
	t.Parallel()
	j := &MemorySweepJob{Logger: slog.Default()}
	if j.Name() != "memory_sweep" {
		t.Errorf("name = %q, want %q", j.Name(), "memory_sweep")
	}
}

func TestMemorySweepJob_Schedule(t *testing.T) {
	t.Parallel()
	j := &MemorySweepJob{Logger: slog.Default()}
	if j.Schedule() != "0 * * * *" {
		t.Errorf("schedule = %q, want %q", j.Schedule(), "0 * * * *")
	}
	j.ScheduleExpr = "*/30 * * * *"
	if j.Schedule() != "*/30 * * * *" {
		t.Errorf("schedule = %q, want override", j.Schedule())
	}
}

func TestMemorySweepJob_Run(t *testing.T) {
	t.Parallel()
	mem := memory.New(nil)
	mem.Store("conv-1", map[string]any{"last_message": "hi"}, nil)

	// Give the stored fact a measurable age, then sweep with a cutoff
	// shorter than that age.
	time.Sleep(5 * time.Millisecond)
	j := &MemorySweepJob{Memory: mem, MaxAge: time.Nanosecond, Logger: slog.Default()}
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := mem.GetContext("conv-1"); got != nil {
		t.Errorf("GetContext() = %v after sweep, want nil", got)
	}
}

func TestMemorySweepJob_RunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := &MemorySweepJob{Memory: memory.New(nil), Logger: slog.Default()}
	if err := j.Run(ctx); err == nil {
		t.Error("Run() error = nil on cancelled context")
	}
}

func TestDedupPurgeJob_Name(t *testing.T) {
	t.Parallel()
	j := &DedupPurgeJob{Logger: slog.Default()}
	if j.Name() != "dedup_purge" {
		t.Errorf("name = %q, want %q", j.Name(), "dedup_purge")
	}
}

func TestDedupPurgeJob_Run(t *testing.T) {
	t.Parallel()
	d := dedup.New[provider.Response](dedup.Config{TTL: time.Millisecond})
	_, _, err := d.GetOrExecute(context.Background(), "u", "m", "c",
		func(context.Context) (provider.Response, error) {
			return provider.Response{Content: "ok"}, nil
		})
	if err != nil {
		t.Fatalf("GetOrExecute() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	j := &DedupPurgeJob{Dedup: d, Logger: slog.Default()}
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats := d.Stats(); stats.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d after purge, want 0", stats.TotalEntries)
	}
}
