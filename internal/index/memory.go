package index

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyReviewed    = errors.New("submission already reviewed")
)

// CafeIndex provides in-memory storage and lookup for cafes and pending
// submissions. It is the primary read path; Redis only persists it.
type CafeIndex struct {
	mu          sync.RWMutex
	cafes       map[string]*domain.Cafe       // ID -> Cafe
	submissions map[string]*domain.Submission // ID -> pending Submission
	lastReload  time.Time                     // Timestamp of last dataset reload
}

// NewCafeIndex creates a new, empty index
func NewCafeIndex() *CafeIndex {
	return &CafeIndex{
		cafes:       make(map[string]*domain.Cafe),
		submissions: make(map[string]*domain.Submission),
	}
}

// ReplaceSource swaps every cafe coming from source with cafes.
// Cafes from other sources (approved submissions) are kept.
func (idx *CafeIndex) ReplaceSource(source string, cafes []*domain.Cafe) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for id, cafe := range idx.cafes {
		if cafe.Source == source {
			delete(idx.cafes, id)
		}
	}
	for _, cafe := range cafes {
		idx.cafes[cafe.ID] = cafe
	}
	idx.lastReload = time.Now()
}

// GetCafe retrieves a cafe by ID
func (idx *CafeIndex) GetCafe(id string) (*domain.Cafe, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	cafe, ok := idx.cafes[id]
	return cafe, ok
}

// GetAllCafes returns all cafes sorted by name
func (idx *CafeIndex) GetAllCafes() []*domain.Cafe {
	idx.mu.RLock()
	cafes := make([]*domain.Cafe, 0, len(idx.cafes))
	for _, cafe := range idx.cafes {
		cafes = append(cafes, cafe)
	}
	idx.mu.RUnlock()

	sort.Slice(cafes, func(i, j int) bool {
		if cafes[i].Name != cafes[j].Name {
			return cafes[i].Name < cafes[j].Name
		}
		return cafes[i].ID < cafes[j].ID
	})
	return cafes
}

// AddCafe adds or updates a single cafe
func (idx *CafeIndex) AddCafe(cafe *domain.Cafe) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.cafes[cafe.ID] = cafe
}

// DeleteCafe removes a cafe from the index
func (idx *CafeIndex) DeleteCafe(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.cafes, id)
}

// Count returns the number of cafes in the index
func (idx *CafeIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.cafes)
}

// GetLastReload returns the timestamp of the last dataset reload
func (idx *CafeIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Nearby returns cafes within radiusKm of center, nearest first.
func (idx *CafeIndex) Nearby(center domain.GeoPoint, radiusKm float64) []domain.NearbyCafe {
	return domain.Nearby(center, idx.GetAllCafes(), radiusKm)
}

// OpenAt returns cafes whose opening hours are open at t.
// Cafes without hours or with undecodable hours are left out.
func (idx *CafeIndex) OpenAt(t time.Time) []*domain.Cafe {
	var open []*domain.Cafe
	for _, cafe := range idx.GetAllCafes() {
		if cafe.OpeningHours == "" {
			continue
		}
		schedule, err := domain.DecodeHours(cafe.OpeningHours)
		if err != nil {
			continue
		}
		if domain.OpenAt(schedule, t) {
			open = append(open, cafe)
		}
	}
	return open
}

// ─────────────────────────────────────────────────────────────────
// Submission methods
// ─────────────────────────────────────────────────────────────────

// Submissions are copied in and out of the index, callers never share a
// pointer with the queue.

// AddSubmission queues a copy of a pending submission
func (idx *CafeIndex) AddSubmission(sub *domain.Submission) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if sub.Status == domain.StatusPending {
		queued := *sub
		idx.submissions[sub.ID] = &queued
	}
}

// PendingSubmissions returns copies of the pending submissions, oldest first
func (idx *CafeIndex) PendingSubmissions() []*domain.Submission {
	idx.mu.RLock()
	subs := make([]*domain.Submission, 0, len(idx.submissions))
	for _, sub := range idx.submissions {
		snapshot := *sub
		subs = append(subs, &snapshot)
	}
	idx.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})
	return subs
}

// Review approves or rejects a pending submission. An approved submission's
// cafe becomes listed. A copy of the reviewed submission is returned for
// persistence.
func (idx *CafeIndex) Review(id string, approve bool, note string, now time.Time) (*domain.Submission, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	sub, ok := idx.submissions[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	if !sub.Review(approve, note, now) {
		return nil, ErrAlreadyReviewed
	}
	delete(idx.submissions, id)

	if sub.Status == domain.StatusApproved {
		cafe := sub.Cafe
		idx.cafes[cafe.ID] = &cafe
	}
	reviewed := *sub
	return &reviewed, nil
}
