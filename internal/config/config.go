// Package config loads observer and search settings from a TOML file.
//
//	[observer]
//	lat = "33:26:54"
//	lon = -112.074
//	tz  = "America/Phoenix"
//
//	[search]
//	step = "15m"
//	tolerance = "10s"
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/naoina/toml"

	"github.com/thurmanmarka/daynight/internal/angle"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Degrees accepts decimal or sexagesimal text ("-112.074", "33:26:54N").
type Degrees float64

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Degrees) UnmarshalText(b []byte) error {
	v, err := angle.ParseDegrees(string(b))
	if err != nil {
		return err
	}
	*d = Degrees(v)
	return nil
}

// Duration accepts time.ParseDuration text.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Observer is the default observing site.
type Observer struct {
	Lat Degrees
	Lon Degrees
	TZ  string
}

// Search tunes the rise/set search.
type Search struct {
	Step      Duration
	Tolerance Duration
}

// Config is the whole file.
type Config struct {
	Observer Observer
	Search   Search
}

// Default returns the settings used when no file is given: Greenwich, UTC,
// 30 minute sampling and 30 second refinement.
func Default() Config {
	return Config{
		Observer: Observer{TZ: "UTC"},
		Search: Search{
			Step:      Duration(30 * time.Minute),
			Tolerance: Duration(30 * time.Second),
		},
	}
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks ranges and that the time zone exists.
func (c Config) Validate() error {
	if c.Observer.Lat < -90 || c.Observer.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalid, float64(c.Observer.Lat))
	}
	if c.Observer.Lon < -180 || c.Observer.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalid, float64(c.Observer.Lon))
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Search.Step <= 0 || time.Duration(c.Search.Step) > 6*time.Hour {
		return fmt.Errorf("%w: search step %v", ErrInvalid, time.Duration(c.Search.Step))
	}
	if c.Search.Tolerance <= 0 || c.Search.Tolerance > c.Search.Step {
		return fmt.Errorf("%w: search tolerance %v", ErrInvalid, time.Duration(c.Search.Tolerance))
	}
	return nil
}

// Location resolves the observer time zone; empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Observer.TZ == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Observer.TZ)
}
