package cmd

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/snapshot"
)

// storeOldSnapshot writes a snapshot dated days ago straight into the store
func storeOldSnapshot(t *testing.T, topic string, days int, tags ...string) string {
	t.Helper()

	store := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir())
	path, err := store.Save(&models.Snapshot{
		ID:        topic,
		Topic:     topic,
		Timestamp: time.Now().AddDate(0, 0, -days),
		Tags:      tags,
	})
	if err != nil {
		t.Fatalf("failed to store snapshot: %v", err)
	}
	return path
}

func TestPruneNoSnapshots(t *testing.T) {
	enterSampleTree(t)

	pruneDryRun = true
	pruneForce = false

	if err := runPrune(nil, []string{}); err != nil {
		t.Fatalf("prune command failed: %v", err)
	}
}

func TestPruneDryRun(t *testing.T) {
	enterSampleTree(t)

	old := storeOldSnapshot(t, "ancient", 400)
	createTestSnapshot(t, "fresh", nil)

	pruneDryRun = true
	pruneForce = false

	c, out := captured()
	if err := runPrune(c, []string{}); err != nil {
		t.Fatalf("prune command failed: %v", err)
	}

	if !strings.Contains(out.String(), "Snapshots to prune (1)") {
		t.Errorf("expected one prune candidate: %s", out.String())
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("dry run deleted a snapshot")
	}
}

func TestPruneForce(t *testing.T) {
	enterSampleTree(t)

	old := storeOldSnapshot(t, "ancient", 400)
	kept := storeOldSnapshot(t, "ancient-important", 400, "important")
	createTestSnapshot(t, "fresh", nil)

	pruneDryRun = true
	pruneForce = true
	defer func() { pruneForce = false }()

	c, out := captured()
	if err := runPrune(c, []string{}); err != nil {
		t.Fatalf("prune command failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old snapshot was not pruned")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Error("snapshot with preserve tag was pruned")
	}
	if !strings.Contains(out.String(), "✓ Pruned 1 snapshot(s)") {
		t.Errorf("unexpected output: %s", out.String())
	}

	entries, _ := snapshot.NewStore(afero.NewOsFs(), config.GetSnapshotDir()).List()
	if len(entries) != 2 {
		t.Errorf("expected 2 remaining snapshots, got %d", len(entries))
	}
}
