package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/memory"
	"github.com/tripflow/tripflow/internal/provider"
)

// MemorySweepJob removes conversation memories whose facts have all aged
// past MaxAge. A conversation with even one recent fact survives.
type MemorySweepJob struct {
	Memory       *memory.Memory
	MaxAge       time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 * * * *"
}

// Compile-time interface check.
var _ Job = (*MemorySweepJob)(nil)

// Name implements Job.
func (j *MemorySweepJob) Name() string { return "memory_sweep" }

// Schedule implements Job.
func (j *MemorySweepJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run sweeps stale conversation memories.
func (j *MemorySweepJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: memory sweep cancelled: %w", ctx.Err())
	}
	maxAge := j.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	removed := j.Memory.CleanupOldContexts(maxAge)
	if removed > 0 {
		j.Logger.Info("cron: swept conversation memories", "removed", removed)
	}
	return nil
}

// DedupPurgeJob drops expired entries from the request deduplication cache
// and reports the remaining cache shape.
type DedupPurgeJob struct {
	Dedup        *dedup.Deduplicator[provider.Response]
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*DedupPurgeJob)(nil)

// Name implements Job.
func (j *DedupPurgeJob) Name() string { return "dedup_purge" }

// Schedule implements Job.
func (j *DedupPurgeJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run purges expired cache entries.
func (j *DedupPurgeJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: dedup purge cancelled: %w", ctx.Err())
	}
	purged := j.Dedup.Purge()
	stats := j.Dedup.Stats()
	if purged > 0 {
		j.Logger.Info("cron: purged dedup cache", "purged", purged, "live", stats.ValidEntries)
	}
	return nil
}
