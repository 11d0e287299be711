package core

// scheduler.go runs background maintenance for the audit log.
//
// The retention job drops entries older than the configured retention on
// start and then every interval. It is long-running and context-aware for
// graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the audit retention job.
type RetentionConfig struct {
	Retention     time.Duration // How long entries are kept
	CheckInterval time.Duration // How often to prune
}

// StartRetention prunes old audit entries immediately, then every
// CheckInterval, until ctx is cancelled.
func (a *AuditLog) StartRetention(ctx context.Context, cfg RetentionConfig) {
	slog.Info("audit retention started",
		"retention", cfg.Retention,
		"interval", cfg.CheckInterval,
	)

	a.runRetentionJob(cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention stopped")
			return
		case <-ticker.C:
			a.runRetentionJob(cfg)
		}
	}
}

// runRetentionJob performs one prune cycle.
func (a *AuditLog) runRetentionJob(cfg RetentionConfig) {
	start := time.Now()
	pruned := a.Prune(a.now().Add(-cfg.Retention))
	if pruned > 0 {
		slog.Info("pruned audit log entries",
			"entries_pruned", pruned,
			"entries_kept", a.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	slog.Debug("audit retention job completed", "entries_kept", a.Len())
}
