package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

func TestSubmissionExpirer_Expire(t *testing.T) {
	log := logger.New("error", false)
	idx := index.NewCafeIndex()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	old := domain.NewSubmission(domain.Cafe{Name: "Old"}, now.Add(-35*24*time.Hour))
	recent := domain.NewSubmission(domain.Cafe{Name: "Recent"}, now.Add(-10*24*time.Hour))
	idx.AddSubmission(old)
	idx.AddSubmission(recent)

	se := NewSubmissionExpirer(nil, idx, log, time.Hour, 0)
	se.now = func() time.Time { return now }

	if got := se.Expire(context.Background()); got != 1 {
		t.Fatalf("Expire() = %d, want 1", got)
	}

	pending := idx.PendingSubmissions()
	if len(pending) != 1 || pending[0].ID != recent.ID {
		t.Errorf("pending after expiry = %v, want only the recent one", pending)
	}
	if _, err := idx.Review(old.ID, true, "", now); !errors.Is(err, index.ErrSubmissionNotFound) {
		t.Errorf("expired submission still reviewable: %v", err)
	}
	if _, ok := idx.GetCafe(old.ID); ok {
		t.Error("expired submission should not be listed")
	}
}

func TestSubmissionExpirer_NothingToExpire(t *testing.T) {
	log := logger.New("error", false)
	se := NewSubmissionExpirer(nil, index.NewCafeIndex(), log, time.Hour, time.Hour)

	if got := se.Expire(context.Background()); got != 0 {
		t.Errorf("Expire() on empty index = %d, want 0", got)
	}
}
