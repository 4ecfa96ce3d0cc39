package domain

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean earth radius used by DistanceKm.
// The spherical approximation is accurate enough for city-scale distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between a and b using the
// Haversine formula. Invalid coordinates propagate as NaN.
func DistanceKm(a, b GeoPoint) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether candidate lies within radiusKm of center.
// The boundary is inclusive.
func WithinRadius(center, candidate GeoPoint, radiusKm float64) bool {
	return DistanceKm(center, candidate) <= radiusKm
}

// FormatDistance renders a distance for display:
// whole meters under 1 km ("850 m"), one decimal otherwise ("2.3 km").
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int64(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NearbyCafe is a cafe annotated with its distance from a reference point.
type NearbyCafe struct {
	Cafe       *Cafe   `json:"cafe"`
	DistanceKm float64 `json:"distanceKm"`
	Distance   string  `json:"distance"`
}

// Nearby filters cafes to those within radiusKm of center and sorts them
// nearest first (ties broken by name). A radius <= 0 disables filtering.
func Nearby(center GeoPoint, cafes []*Cafe, radiusKm float64) []NearbyCafe {
	result := make([]NearbyCafe, 0, len(cafes))
	for _, cafe := range cafes {
		if cafe == nil {
			continue
		}
		d := DistanceKm(center, cafe.Location)
		if math.IsNaN(d) {
			continue
		}
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		result = append(result, NearbyCafe{
			Cafe:       cafe,
			DistanceKm: d,
			Distance:   FormatDistance(d),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DistanceKm != result[j].DistanceKm {
			return result[i].DistanceKm < result[j].DistanceKm
		}
		return result[i].Cafe.Name < result[j].Cafe.Name
	})

	return result
}
