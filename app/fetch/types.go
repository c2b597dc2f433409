package fetch

import (
	"time"

	"github.com/autopropelidos/portal-996/app/content"
)

// Source configuration types, one YAML file per upstream source.

type SourceConfig struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Kind     content.Kind   `yaml:"kind"`     // news or video
	Category string         `yaml:"category"` // default category for items
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"` // seconds
	ExtractContent  bool `yaml:"extract_content"`
}

// Metadata describes the upstream feed itself, stored on the source record.
type Metadata struct {
	Title       string
	Link        string
	Description string
	ImageURL    string
	Language    string
	PublishedAt *time.Time
}
