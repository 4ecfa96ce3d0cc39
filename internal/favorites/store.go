package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
)

// KeyPrefix is the storage key prefix for a client's favorites collection.
const KeyPrefix = "ruangkopi:favorites:"

// DefaultClient is used when a caller does not identify itself.
const DefaultClient = "anonymous"

// Key returns the storage key holding the favorites of a client.
func Key(client string) string {
	if client == "" {
		client = DefaultClient
	}
	return KeyPrefix + client
}

// KV is a durable slot store. Get returns (nil, nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Observer is notified of every operation and storage failure.
type Observer interface {
	FavoriteOp(op string, ok bool)
	StorageError(op string)
}

// Store keeps a client's favorite cafes as one serialized collection under
// one key. Every mutation reads the full collection and writes it back.
//
// Storage failures never reach the caller: reads degrade to an empty list and
// writes to a no-op, both logged. A mutation whose read failed is not written. Writers in other processes are not
// coordinated, the last write wins.
type Store struct {
	mu       sync.Mutex
	kv       KV
	key      string
	logger   logger.Logger
	observer Observer
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithObserver attaches an operation observer (metrics).
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// NewStore creates a favorites store bound to one storage key
func NewStore(kv KV, key string, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    key,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the favorites in stored order.
func (s *Store) List(ctx context.Context) []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.load(ctx)
	s.observe("list", ok)
	return list
}

// Contains reports whether a favorite with id exists.
func (s *Store) Contains(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _ := s.load(ctx)
	return indexOf(list, id) >= 0
}

// Add appends cafe with AddedAt = now. Adding an existing id is a no-op.
func (s *Store) Add(ctx context.Context, cafe domain.Cafe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.load(ctx)
	if !ok {
		s.skip("add")
		return
	}
	s.add(ctx, list, cafe)
}

// Remove drops every entry with id. Missing ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) {
	s.RemoveExisting(ctx, id)
}

// RemoveExisting drops id and reports whether it was a favorite before.
// Unlike Toggle it never adds, so it works for cafes that are no longer listed.
func (s *Store) RemoveExisting(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.load(ctx)
	if !ok {
		s.skip("remove")
		return false
	}
	if indexOf(list, id) < 0 {
		s.observe("remove", true)
		return false
	}
	s.remove(ctx, list, id)
	return true
}

// Toggle removes cafe if present, otherwise adds it.
// It returns the membership after the operation.
func (s *Store) Toggle(ctx context.Context, cafe domain.Cafe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.load(ctx)
	if !ok {
		s.skip("toggle")
		return false
	}
	if indexOf(list, cafe.ID) >= 0 {
		s.remove(ctx, list, cafe.ID)
		return false
	}
	s.add(ctx, list, cafe)
	return true
}

func (s *Store) add(ctx context.Context, list []domain.Favorite, cafe domain.Cafe) {
	if indexOf(list, cafe.ID) >= 0 {
		s.observe("add", true)
		return
	}

	list = append(list, domain.Favorite{
		Cafe:    cafe,
		AddedAt: s.now().UnixMilli(),
	})
	s.observe("add", s.save(ctx, list))
}

func (s *Store) remove(ctx context.Context, list []domain.Favorite, id string) {
	kept := make([]domain.Favorite, 0, len(list))
	for _, fav := range list {
		if fav.ID != id {
			kept = append(kept, fav)
		}
	}
	s.observe("remove", s.save(ctx, kept))
}

// skip records a mutation dropped because the collection could not be read.
func (s *Store) skip(op string) {
	s.logger.Warn("favorites unreadable, skipping write",
		logger.String("key", s.key),
		logger.String("op", op))
	s.observe(op, false)
}

// load reads the collection. ok is false only when the read itself failed;
// a missing or corrupt value loads as an empty list that may be written over.
func (s *Store) load(ctx context.Context) (list []domain.Favorite, ok bool) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read favorites",
			logger.String("key", s.key),
			logger.Error(err))
		s.storageError("read")
		return []domain.Favorite{}, false
	}
	if len(data) == 0 {
		return []domain.Favorite{}, true
	}

	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("corrupt favorites data, starting empty",
			logger.String("key", s.key),
			logger.Error(err))
		s.storageError("decode")
		return []domain.Favorite{}, true
	}
	if list == nil {
		list = []domain.Favorite{}
	}
	return list, true
}

func (s *Store) save(ctx context.Context, list []domain.Favorite) bool {
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("failed to encode favorites",
			logger.String("key", s.key),
			logger.Error(err))
		s.storageError("encode")
		return false
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to write favorites",
			logger.String("key", s.key),
			logger.Error(err))
		s.storageError("write")
		return false
	}
	return true
}

func (s *Store) observe(op string, ok bool) {
	if s.observer != nil {
		s.observer.FavoriteOp(op, ok)
	}
}

func (s *Store) storageError(op string) {
	if s.observer != nil {
		s.observer.StorageError(op)
	}
}

func indexOf(list []domain.Favorite, id string) int {
	for i, fav := range list {
		if fav.ID == id {
			return i
		}
	}
	return -1
}
