package cafes

import "github.com/MrSnakeDoc/ruangkopi/internal/domain"

// DatasetConfig is the root structure of cafes.yaml
type DatasetConfig struct {
	Cafes []CafeEntry `yaml:"cafes"`
}

// CafeEntry is one cafe in the dataset.
// Hours may be given pre-encoded (opening_hours) or per weekday (hours);
// opening_hours wins when both are set.
type CafeEntry struct {
	ID           string                `yaml:"id,omitempty"`
	Name         string                `yaml:"name"`
	Address      string                `yaml:"address,omitempty"`
	Phone        string                `yaml:"phone,omitempty"`
	Instagram    string                `yaml:"instagram,omitempty"`
	Tags         []string              `yaml:"tags,omitempty"`
	Lat          float64               `yaml:"lat"`
	Lon          float64               `yaml:"lon"`
	OpeningHours string                `yaml:"opening_hours,omitempty"`
	Hours        domain.WeeklySchedule `yaml:"hours,omitempty"`
}
