package domain

// Favorite is a bookmarked cafe.
// It serializes as the cafe record flattened with an "addedAt" field.
type Favorite struct {
	Cafe

	// AddedAt is the epoch-millisecond time the cafe was bookmarked.
	AddedAt int64 `json:"addedAt"`
}
