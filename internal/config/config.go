// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - Provide New() returning a Config populated with defaults.
// - Load layers a YAML file and CLIMATEKIT_* environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BaseURL is the root of the OpenClimate API, without a trailing slash.
	BaseURL string `koanf:"base_url"`

	// RequestTimeoutMS bounds every upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// PartType is the default part type for actor part lookups (adm1, adm2, city, ...).
	PartType string `koanf:"part_type"`

	// TargetYear is the default year used by target lookups.
	TargetYear int `koanf:"target_year"`

	// BaselineYear is the default baseline year of the IPCC range.
	BaselineYear int `koanf:"baseline_year"`

	// TargetValue15 and TargetValue20 are the AR6 percent reductions for the
	// 1.5C and 2.0C pathways.
	TargetValue15 float64 `koanf:"target_value_15"`
	TargetValue20 float64 `koanf:"target_value_20"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		BaseURL:          "https://openclimate.openearth.dev/api/v1",
		RequestTimeoutMS: 30_000,
		PartType:         "adm1",
		TargetYear:       2030,
		BaselineYear:     2019,
		TargetValue15:    43,
		TargetValue20:    27,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
