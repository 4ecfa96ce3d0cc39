package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
}

func TestCafeReloader_Reload(t *testing.T) {
	log := logger.New("error", false)
	idx := index.NewCafeIndex()
	path := filepath.Join(t.TempDir(), "cafes.yaml")

	writeDataset(t, path, `cafes:
  - id: one
    name: Kopi Satu
    lat: -7.25
    lon: 112.75
    opening_hours: "Mo-Su 07:00-23:00"
  - id: two
    name: Kopi Dua
    lat: -7.26
    lon: 112.76
`)

	idx.AddCafe(&domain.Cafe{ID: "sub", Name: "Submitted", Source: domain.SourceSubmission})

	cr := NewCafeReloader(path, domain.NewHoursEncoder(true), nil, idx, log, time.Hour, nil)
	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if idx.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", idx.Count())
	}

	// Second load drops "two" and keeps the submitted cafe
	writeDataset(t, path, `cafes:
  - id: one
    name: Kopi Satu
    lat: -7.25
    lon: 112.75
`)
	if got := cr.removedIDs([]*domain.Cafe{{ID: "one"}}); len(got) != 1 || got[0] != "two" {
		t.Errorf("removedIDs() = %v, want [two]", got)
	}
	if err := cr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := idx.GetCafe("two"); ok {
		t.Error("cafe removed from dataset is still indexed")
	}
	if _, ok := idx.GetCafe("sub"); !ok {
		t.Error("submitted cafe was dropped by a dataset reload")
	}
}

func TestCafeReloader_ReloadKeepsIndexOnError(t *testing.T) {
	log := logger.New("error", false)
	idx := index.NewCafeIndex()
	idx.ReplaceSource(domain.SourceDataset, []*domain.Cafe{{ID: "a", Name: "A", Source: domain.SourceDataset}})

	cr := NewCafeReloader(filepath.Join(t.TempDir(), "missing.yaml"), domain.NewHoursEncoder(true), nil, idx, log, time.Hour, nil)
	if err := cr.Reload(context.Background()); err == nil {
		t.Fatal("Reload() with missing file should return error")
	}
	if idx.Count() != 1 {
		t.Errorf("Count() = %d, want the previous dataset kept", idx.Count())
	}
}

func TestCafeReloader_ManualTrigger(t *testing.T) {
	log := logger.New("error", false)
	idx := index.NewCafeIndex()
	path := filepath.Join(t.TempDir(), "cafes.yaml")
	writeDataset(t, path, "cafes:\n  - {id: a, name: A, lat: 1, lon: 1}\n")

	trigger := make(chan struct{}, 1)
	cr := NewCafeReloader(path, domain.NewHoursEncoder(true), nil, idx, log, time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cr.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer cr.Stop()

	writeDataset(t, path, "cafes:\n  - {id: a, name: A, lat: 1, lon: 1}\n  - {id: b, name: B, lat: 2, lon: 2}\n")
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for idx.Count() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger did not reload, Count() = %d", idx.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
