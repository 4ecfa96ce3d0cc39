package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
)

// ErrNotFound is returned when a cafe or submission does not exist.
var ErrNotFound = errors.New("not found")

// Store handles Redis operations for cafes, submissions and favorites
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ─────────────────────────────────────────────────────────────────
// Cafes
// ─────────────────────────────────────────────────────────────────

// SaveCafe stores a cafe in Redis
func (s *Store) SaveCafe(ctx context.Context, cafe *domain.Cafe) error {
	data, err := json.Marshal(cafe)
	if err != nil {
		return fmt.Errorf("failed to marshal cafe: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CafeKey(cafe.ID), data, 0)
	pipe.SAdd(ctx, AllCafesKey(), cafe.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save cafe: %w", err)
	}

	return nil
}

// GetCafe retrieves a cafe from Redis by ID
func (s *Store) GetCafe(ctx context.Context, id string) (*domain.Cafe, error) {
	data, err := s.client.Get(ctx, CafeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("cafe %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}

	var cafe domain.Cafe
	if err := json.Unmarshal(data, &cafe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cafe: %w", err)
	}

	return &cafe, nil
}

// GetAllCafes retrieves all cafes from Redis
func (s *Store) GetAllCafes(ctx context.Context) ([]*domain.Cafe, error) {
	ids, err := s.client.SMembers(ctx, AllCafesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cafe IDs: %w", err)
	}

	cafes := make([]*domain.Cafe, 0, len(ids))
	for _, id := range ids {
		cafe, err := s.GetCafe(ctx, id)
		if err != nil {
			// Skip cafes that couldn't be retrieved
			continue
		}
		cafes = append(cafes, cafe)
	}

	return cafes, nil
}

// DeleteCafe removes a cafe from Redis
func (s *Store) DeleteCafe(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, CafeKey(id))
	pipe.SRem(ctx, AllCafesKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete cafe: %w", err)
	}
	return nil
}

// SaveCafesMany stores multiple cafes in Redis (bulk operation)
func (s *Store) SaveCafesMany(ctx context.Context, cafes []*domain.Cafe) error {
	pipe := s.client.Pipeline()

	for _, cafe := range cafes {
		data, err := json.Marshal(cafe)
		if err != nil {
			return fmt.Errorf("failed to marshal cafe %s: %w", cafe.ID, err)
		}

		pipe.Set(ctx, CafeKey(cafe.ID), data, 0)
		pipe.SAdd(ctx, AllCafesKey(), cafe.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save cafes: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────
// Submissions
// ─────────────────────────────────────────────────────────────────

// SaveSubmission stores a submission and keeps the pending set in sync
func (s *Store) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SubmissionKey(sub.ID), data, 0)
	if sub.Status == domain.StatusPending {
		pipe.SAdd(ctx, PendingSubmissionsKey(), sub.ID)
	} else {
		pipe.SRem(ctx, PendingSubmissionsKey(), sub.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves a submission by ID
func (s *Store) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	data, err := s.client.Get(ctx, SubmissionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}

	return &sub, nil
}

// GetPendingSubmissions retrieves all submissions waiting for review
func (s *Store) GetPendingSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	ids, err := s.client.SMembers(ctx, PendingSubmissionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get submission IDs: %w", err)
	}

	subs := make([]*domain.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := s.GetSubmission(ctx, id)
		if err != nil {
			continue
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// ─────────────────────────────────────────────────────────────────
// Favorites slot (favorites.KV)
// ─────────────────────────────────────────────────────────────────

// Get returns the raw value under key, or nil if it does not exist
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the raw value under key, without expiry
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
