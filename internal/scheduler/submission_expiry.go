package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	redisstore "github.com/MrSnakeDoc/ruangkopi/internal/store/redis"
)

const (
	// DefaultSubmissionTTL is how long a submission may wait for review
	DefaultSubmissionTTL = 30 * 24 * time.Hour // 30 days

	expiredNote = "expired without review"
)

// SubmissionExpirer rejects submissions nobody reviewed in time
type SubmissionExpirer struct {
	store    *redisstore.Store
	index    *index.CafeIndex
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewSubmissionExpirer creates a new submission expirer
func NewSubmissionExpirer(
	store *redisstore.Store,
	idx *index.CafeIndex,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SubmissionExpirer {
	if ttl == 0 {
		ttl = DefaultSubmissionTTL
	}

	return &SubmissionExpirer{
		store:    store,
		index:    idx,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs an expiry pass now and then on every tick
func (se *SubmissionExpirer) Start(ctx context.Context) {
	se.Expire(ctx)

	ticker := time.NewTicker(se.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				se.Expire(ctx)
			case <-se.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the expirer
func (se *SubmissionExpirer) Stop() {
	close(se.stopCh)
}

// Expire rejects pending submissions older than the TTL and returns how many
// were rejected.
func (se *SubmissionExpirer) Expire(ctx context.Context) int {
	now := se.now()
	expired := 0

	for _, sub := range se.index.PendingSubmissions() {
		age := now.Sub(sub.SubmittedAt)
		if age < se.ttl {
			// oldest first, nothing newer can be expired
			break
		}

		reviewed, err := se.index.Review(sub.ID, false, expiredNote, now)
		if err != nil {
			// reviewed concurrently
			continue
		}

		if se.store != nil {
			if err := se.store.SaveSubmission(ctx, reviewed); err != nil {
				se.logger.Warn("failed to persist expired submission",
					logger.String("submission_id", sub.ID),
					logger.Error(err))
			}
		}

		se.logger.Info("expired pending submission",
			logger.String("submission_id", sub.ID),
			logger.String("name", sub.Cafe.Name),
			logger.String("pending_for", age.String()))
		expired++
	}

	if expired == 0 {
		se.logger.Debug("no submissions to expire")
	}
	return expired
}
