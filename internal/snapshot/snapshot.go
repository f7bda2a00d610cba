// Package snapshot periodically writes audit exports to disk on a cron
// schedule. This runner belongs to the surrounding application; the engine
// itself owns no timers or background work.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"redline/pkg/audit"
	"redline/pkg/config"
	"redline/pkg/logger"
)

const snapshotActor = "snapshot-scheduler"

// Start launches the snapshot scheduler when enabled. The returned stop
// function is always safe to call.
func Start(ctx context.Context, cfg config.SnapshotConfig, exporter *audit.Exporter) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("snapshots_disabled")
		return func() {}, nil
	}
	if len(cfg.Projects) == 0 {
		return nil, fmt.Errorf("snapshot enabled but no projects configured")
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("snapshot_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid snapshot cron expression: %s", cfg.Cron)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "./snapshots"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Error("snapshot_dir_create_failed", "dir", dir, "error", err)
		return nil, err
	}

	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, dir, cfg.Projects, exporter)
	logger.Info("snapshot_scheduler_started", "cron", cronExpr, "dir", dir, "projects", len(cfg.Projects))
	return cancel, nil
}

// runScheduler computes the next cron tick via gronx and sleeps until it.
func runScheduler(ctx context.Context, cronExpr, dir string, projects []string, exporter *audit.Exporter) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("snapshot_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("snapshot_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			RunOnce(dir, projects, exporter)
		case <-ctx.Done():
			logger.Info("snapshot_scheduler_stopping")
			return
		}
	}
}

// RunOnce writes one snapshot file per configured project. Exposed so
// admin tooling and tests can trigger a run without the scheduler.
func RunOnce(dir string, projects []string, exporter *audit.Exporter) {
	stamp := time.Now().UTC().Format("20060102T150405Z")
	for _, project := range projects {
		export := exporter.Export(project, "", "", snapshotActor)
		b, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			logger.Error("snapshot_marshal_failed", "project", project, "error", err)
			continue
		}
		fname := filepath.Join(dir, fmt.Sprintf("%s-%s.json", project, stamp))
		if err := os.WriteFile(fname, b, 0o600); err != nil {
			logger.Error("snapshot_write_failed", "path", fname, "error", err)
			continue
		}
		logger.Info("snapshot_written", "path", fname, "threads", export.Summary.TotalThreads)
	}
}
