package config

import (
	"time"
)

// Config represents the complete bot configuration
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Routing   RoutingConfig   `yaml:"routing"`
	Places    PlacesConfig    `yaml:"places"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// TelegramConfig holds Bot API settings
type TelegramConfig struct {
	Token           string `yaml:"token"`
	PollTimeoutSecs int    `yaml:"poll_timeout_secs"`
}

// GeocodingConfig holds Nominatim settings
type GeocodingConfig struct {
	UserAgent string        `yaml:"user_agent"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// RoutingConfig holds OpenRouteService settings
type RoutingConfig struct {
	APIKey string `yaml:"api_key"`
}

// PlacesConfig holds OpenTripMap settings and sampling parameters
type PlacesConfig struct {
	APIKey       string        `yaml:"api_key"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	RadiusMeters float64       `yaml:"radius_meters"`
	Limit        int           `yaml:"limit"`
	StepKm       float64       `yaml:"step_km"`
	MaxStops     int           `yaml:"max_stops"`
}

// ArchiveConfig holds saved-trip persistence settings
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			PollTimeoutSecs: 30,
		},
		Geocoding: GeocodingConfig{
			UserAgent: "roadtripbot/1.0",
			CacheTTL:  24 * time.Hour,
		},
		Places: PlacesConfig{
			CacheTTL:     time.Hour,
			RadiusMeters: 5000,
			Limit:        5,
			StepKm:       100,
			MaxStops:     30,
		},
	}
}
