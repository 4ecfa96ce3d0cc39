package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	redisstore "github.com/MrSnakeDoc/ruangkopi/internal/store/redis"
)

// RedisSyncer restores approved cafes and pending submissions from Redis on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.CafeIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.CafeIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads submitted cafes and the review queue from Redis into the index.
// Dataset cafes are skipped, the dataset file stays authoritative for them.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing cafes from redis to memory")

	cafes, err := rs.store.GetAllCafes(ctx)
	if err != nil {
		return err
	}

	restored := 0
	for _, cafe := range cafes {
		if cafe.Source != domain.SourceSubmission {
			continue
		}
		rs.index.AddCafe(cafe)
		restored++
	}

	subs, err := rs.store.GetPendingSubmissions(ctx)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		rs.index.AddSubmission(sub)
	}

	rs.logger.Info("synced from redis",
		logger.Int("cafes", restored),
		logger.Int("pending_submissions", len(subs)))

	return nil
}
