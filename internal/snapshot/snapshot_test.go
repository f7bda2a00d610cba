package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"redline/pkg/audit"
	"redline/pkg/config"
	"redline/pkg/models"
	"redline/pkg/threads"
)

func TestRunOnceWritesPerProjectFiles(t *testing.T) {
	s := threads.NewStore(nil, "")
	if _, err := s.CreateThread(threads.CreateThreadParams{
		ProjectID:   "proj-1",
		SheetID:     "sheet-A1",
		Revision:    "rev-A",
		BBox:        models.BBox{W: 1, H: 1},
		CreatedBy:   "user-1",
		InitialText: "hello",
	}); err != nil {
		t.Fatalf("create thread failed: %v", err)
	}

	dir := t.TempDir()
	RunOnce(dir, []string{"proj-1", "proj-2"}, audit.NewExporter(s))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected one file per project, got %d", len(entries))
	}

	var found bool
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "proj-1-") {
			continue
		}
		found = true
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		var export models.AuditExport
		if err := json.Unmarshal(b, &export); err != nil {
			t.Fatalf("snapshot unparseable: %v", err)
		}
		if export.Summary.TotalThreads != 1 || export.ExportedBy != snapshotActor {
			t.Fatalf("snapshot content = %+v", export.Summary)
		}
	}
	if !found {
		t.Fatalf("no snapshot written for proj-1")
	}
}

func TestStartDisabledIsNoop(t *testing.T) {
	stop, err := Start(context.Background(), config.SnapshotConfig{}, nil)
	if err != nil {
		t.Fatalf("disabled snapshots should not error: %v", err)
	}
	stop()
}

func TestStartRejectsBadConfig(t *testing.T) {
	exporter := audit.NewExporter(threads.NewStore(nil, ""))

	if _, err := Start(context.Background(), config.SnapshotConfig{Enabled: true}, exporter); err == nil {
		t.Fatalf("enabled snapshots without projects should error")
	}
	cfg := config.SnapshotConfig{
		Enabled:  true,
		Cron:     "not a cron",
		Dir:      t.TempDir(),
		Projects: []string{"proj-1"},
	}
	if _, err := Start(context.Background(), cfg, exporter); err == nil {
		t.Fatalf("invalid cron expression should error")
	}
}

func TestStartSchedulerStops(t *testing.T) {
	cfg := config.SnapshotConfig{
		Enabled:  true,
		Cron:     "0 2 * * *",
		Dir:      t.TempDir(),
		Projects: []string{"proj-1"},
	}
	stop, err := Start(context.Background(), cfg, audit.NewExporter(threads.NewStore(nil, "")))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stop() // must not hang or panic
}
