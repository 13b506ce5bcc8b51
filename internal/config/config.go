// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, .env, an optional YAML file and environment.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// APIURL is the REST backend base URL, e.g. "https://api.example.com/api/v1".
	APIURL string `koanf:"api_url"`

	// GeocoderURL points at a Nominatim-compatible lookup service.
	GeocoderURL string `koanf:"geocoder_url"`

	// UserAgent is sent to the backend and to the geocoder.
	UserAgent string `koanf:"user_agent"`

	// RequestTimeoutMS bounds every HTTP round-trip.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// PageLimit is the discovery page size.
	PageLimit int `koanf:"page_limit"`

	// DebounceMS is the filter coalescing window.
	DebounceMS int `koanf:"debounce_ms"`

	// ScanCooldownMS is the pause enforced after each ticket scan.
	ScanCooldownMS int `koanf:"scan_cooldown_ms"`

	// DefaultRadiusKM is applied when filtering by the current location.
	DefaultRadiusKM float64 `koanf:"default_radius_km"`

	// Location is the device position as "lat,lng". When empty the client
	// cannot locate itself and "use current location" fails with a notice.
	Location string `koanf:"location"`

	// NoticeQueueSize bounds pending user-visible notices.
	NoticeQueueSize int `koanf:"notice_queue_size"`

	// CheckInWorkers bounds concurrent check-in writes.
	CheckInWorkers int `koanf:"checkin_workers"`

	// Addr configures the local status server listen address.
	Addr string `koanf:"addr"`

	// AccessToken seeds the session when set (e.g. from CI).
	AccessToken string `koanf:"access_token"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		APIURL:           "http://localhost:5000/api/v1",
		GeocoderURL:      "https://nominatim.openstreetmap.org",
		UserAgent:        "eventsphere-cli/1.0",
		RequestTimeoutMS: 15_000,
		PageLimit:        12,
		DebounceMS:       300,
		ScanCooldownMS:   2_000,
		DefaultRadiusKM:  10,
		NoticeQueueSize:  64,
		CheckInWorkers:   4,
		Addr:             "127.0.0.1:9090",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Debounce returns DebounceMS as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ScanCooldown returns ScanCooldownMS as a duration.
func (c *Config) ScanCooldown() time.Duration {
	return time.Duration(c.ScanCooldownMS) * time.Millisecond
}

// Coordinates parses Location. ok is false when no location is configured.
func (c *Config) Coordinates() (lat, lng float64, ok bool, err error) {
	if strings.TrimSpace(c.Location) == "" {
		return 0, 0, false, nil
	}
	latStr, lngStr, found := strings.Cut(c.Location, ",")
	if !found {
		return 0, 0, false, fmt.Errorf("%w: location must be \"lat,lng\", got %q", ErrInvalidConfig, c.Location)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false, fmt.Errorf("%w: invalid location latitude %q", ErrInvalidConfig, latStr)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, false, fmt.Errorf("%w: invalid location longitude %q", ErrInvalidConfig, lngStr)
	}
	return lat, lng, true, nil
}
