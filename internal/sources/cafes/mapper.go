package cafes

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
)

// Mapper converts dataset entries to domain cafes
type Mapper struct {
	encoder *domain.HoursEncoder
}

// NewMapper creates a new mapper using encoder for structured hours
func NewMapper(encoder *domain.HoursEncoder) *Mapper {
	return &Mapper{encoder: encoder}
}

// MapCafes converts a DatasetConfig to domain cafes.
// Entries without a name or without coordinates are skipped, as are
// repeated ids (first one wins).
func (m *Mapper) MapCafes(config DatasetConfig) ([]*domain.Cafe, error) {
	cafes := make([]*domain.Cafe, 0, len(config.Cafes))
	seen := make(map[string]bool, len(config.Cafes))
	now := time.Now()

	for _, entry := range config.Cafes {
		name := strings.TrimSpace(entry.Name)
		location := domain.GeoPoint{Lat: entry.Lat, Lon: entry.Lon}
		if name == "" || location.IsZero() {
			continue
		}

		id := strings.TrimSpace(entry.ID)
		if id == "" {
			id = generateCafeID(name, location)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		cafes = append(cafes, &domain.Cafe{
			ID:           id,
			Name:         name,
			Address:      strings.TrimSpace(entry.Address),
			Phone:        strings.TrimSpace(entry.Phone),
			Instagram:    strings.TrimSpace(entry.Instagram),
			Tags:         entry.Tags,
			Location:     location,
			OpeningHours: m.openingHours(entry),
			Source:       domain.SourceDataset,
			CreatedAt:    now,
		})
	}

	if len(cafes) == 0 {
		return nil, fmt.Errorf("no valid cafes found in dataset")
	}

	return cafes, nil
}

func (m *Mapper) openingHours(entry CafeEntry) string {
	if hours := strings.TrimSpace(entry.OpeningHours); hours != "" {
		return hours
	}
	if len(entry.Hours) == 0 {
		return ""
	}
	return m.encoder.Encode(entry.Hours)
}

// generateCafeID creates a stable ID from the name and position so that a
// reload of the same dataset keeps favorites pointing at the same cafe.
func generateCafeID(name string, p domain.GeoPoint) string {
	key := name + "|" + strconv.FormatFloat(p.Lat, 'f', 6, 64) + "|" + strconv.FormatFloat(p.Lon, 'f', 6, 64)
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])[:16]
}
