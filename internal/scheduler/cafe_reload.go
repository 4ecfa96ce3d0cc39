package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	"github.com/MrSnakeDoc/ruangkopi/internal/sources/cafes"
	redisstore "github.com/MrSnakeDoc/ruangkopi/internal/store/redis"
)

// CafeReloader handles periodic reloading of the cafe dataset
type CafeReloader struct {
	loader        *cafes.Loader
	mapper        *cafes.Mapper
	store         *redisstore.Store
	index         *index.CafeIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCafeReloader creates a new cafe reloader
func NewCafeReloader(
	cafeFile string,
	encoder *domain.HoursEncoder,
	store *redisstore.Store,
	idx *index.CafeIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CafeReloader {
	return &CafeReloader{
		loader:        cafes.NewLoader(cafeFile),
		mapper:        cafes.NewMapper(encoder),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the dataset once, then keeps reloading it on every tick or
// manual trigger until Stop is called or ctx is done. A failed first load is
// fatal only when there is nothing in the index to serve.
func (cr *CafeReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		if cr.index.Count() == 0 {
			return fmt.Errorf("initial cafe reload failed: %w", err)
		}
		cr.logger.Warn("initial cafe reload failed, serving cafes restored from redis",
			logger.Error(err))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload cafes", logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual cafe reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload cafes", logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CafeReloader) Stop() {
	close(cr.stopCh)
}

// Reload reads the dataset and swaps the dataset cafes in the index.
// A failed load leaves the previous cafes in place.
func (cr *CafeReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading cafe dataset")

	config, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load cafes: %w", err)
	}

	newCafes, err := cr.mapper.MapCafes(config)
	if err != nil {
		return fmt.Errorf("failed to map cafes: %w", err)
	}

	removed := cr.removedIDs(newCafes)

	cr.index.ReplaceSource(domain.SourceDataset, newCafes)

	cr.logger.Info("loaded cafes from dataset",
		logger.Int("count", len(newCafes)),
		logger.Int("removed", len(removed)))

	// Redis is best effort, memory index is the primary source
	if cr.store != nil {
		if err := cr.store.SaveCafesMany(ctx, newCafes); err != nil {
			cr.logger.Warn("failed to save cafes to redis", logger.Error(err))
			return nil
		}
		for _, id := range removed {
			if err := cr.store.DeleteCafe(ctx, id); err != nil {
				cr.logger.Warn("failed to delete cafe from redis",
					logger.String("cafe_id", id),
					logger.Error(err))
			}
		}
		cr.logger.Debug("cafes saved to redis")
	}

	return nil
}

// removedIDs lists dataset cafes currently indexed that are absent from next.
func (cr *CafeReloader) removedIDs(next []*domain.Cafe) []string {
	keep := make(map[string]bool, len(next))
	for _, cafe := range next {
		keep[cafe.ID] = true
	}

	var removed []string
	for _, cafe := range cr.index.GetAllCafes() {
		if cafe.Source == domain.SourceDataset && !keep[cafe.ID] {
			removed = append(removed, cafe.ID)
		}
	}
	return removed
}
