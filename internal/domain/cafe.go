package domain

import "time"

// Cafe sources.
const (
	SourceDataset    = "dataset"
	SourceSubmission = "submission"
)

// GeoPoint is a WGS84 coordinate in degrees.
// No range validation is done anywhere in the domain.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// IsZero reports whether both coordinates are unset.
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lon == 0
}

// Cafe represents a listed cafe.
//
// It is NOT tied to the YAML dataset, Redis or the submission form.
// All inputs are mapped into this structure.
type Cafe struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	ID string `json:"id"`

	// ─────────────────────────────
	// Listing
	// ─────────────────────────────

	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	Tags      []string `json:"tags,omitempty"`

	// Location is where the cafe is on the map.
	Location GeoPoint `json:"location"`

	// OpeningHours is the compact weekly schedule,
	// e.g. "Mo-Fr 08:00-22:00; Sa 10:00-20:00; Su off".
	// It is rendered back to users verbatim.
	OpeningHours string `json:"openingHours,omitempty"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// Source is either SourceDataset or SourceSubmission.
	Source string `json:"source,omitempty"`

	// CreatedAt is the first time the cafe was listed.
	CreatedAt time.Time `json:"createdAt"`
}
