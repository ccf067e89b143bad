package substrate

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CollisionPolicy selects how a crack reacts to an incompatible occupied cell.
type CollisionPolicy string

const (
	// CollisionMagnitude kills the crack when the stored heading's absolute
	// value exceeds 2 degrees.
	CollisionMagnitude CollisionPolicy = "magnitude"
	// CollisionDifference kills the crack when the stored heading differs from
	// the crack's heading by more than 2 degrees.
	CollisionDifference CollisionPolicy = "difference"
)

// Config holds every parameter of a substrate run. It is treated as immutable
// once the simulation starts, except for RNGState which is captured on the
// first update when absent.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	InitialCracks int `yaml:"initial_cracks"`
	MaxCracks     int `yaml:"max_cracks"`
	CirclePercent int `yaml:"circle_percent"`
	Grains        int `yaml:"grains"`
	MaxCycles     int `yaml:"max_cycles"`

	Foreground RGB   `yaml:"foreground"`
	Background RGB   `yaml:"background"`
	Palette    []RGB `yaml:"palette"`

	Wireframe bool `yaml:"wireframe"`
	Seamless  bool `yaml:"seamless"`

	Collision CollisionPolicy `yaml:"collision_policy"`

	Seed     int64  `yaml:"seed"`
	RNGState string `yaml:"rng_state,omitempty"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:         640,
		Height:        480,
		InitialCracks: 3,
		MaxCracks:     100,
		CirclePercent: 0,
		Grains:        64,
		Foreground:    RGB{0, 0, 0},
		Background:    RGB{255, 255, 255},
		Palette: []RGB{
			{201, 180, 140},
			{160, 120, 80},
			{120, 140, 110},
			{90, 110, 140},
			{200, 120, 90},
			{230, 210, 170},
		},
		Collision: CollisionMagnitude,
		Seed:      1337,
	}
}

// maxCells bounds Width*Height so the occupancy grid and buffer stay
// allocatable.
const maxCells = 1 << 24

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("substrate config: %s %s", e.Field, e.Reason)
}

// Validate rejects configurations that would divide by zero or index outside
// the allocated grids.
func (c Config) Validate() error {
	switch {
	case c.Width < 1:
		return &ConfigError{Field: "width", Reason: "must be at least 1"}
	case c.Height < 1:
		return &ConfigError{Field: "height", Reason: "must be at least 1"}
	case int64(c.Width)*int64(c.Height) > maxCells:
		return &ConfigError{Field: "width*height", Reason: fmt.Sprintf("must not exceed %d cells", maxCells)}
	case c.InitialCracks < 0:
		return &ConfigError{Field: "initial_cracks", Reason: "must not be negative"}
	case c.MaxCracks < 0:
		return &ConfigError{Field: "max_cracks", Reason: "must not be negative"}
	case c.CirclePercent < 0 || c.CirclePercent > 100:
		return &ConfigError{Field: "circle_percent", Reason: "must be within [0, 100]"}
	case len(c.Palette) == 0:
		return &ConfigError{Field: "palette", Reason: "must hold at least one color"}
	case c.Grains < 2:
		return &ConfigError{Field: "grains", Reason: "must be at least 2"}
	case c.MaxCycles < 0:
		return &ConfigError{Field: "max_cycles", Reason: "must not be negative"}
	}
	switch c.Collision {
	case CollisionMagnitude, CollisionDifference:
	default:
		return &ConfigError{Field: "collision_policy", Reason: fmt.Sprintf("unknown policy %q", c.Collision)}
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config file: %w", err)
	}
	return c, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// FromMap applies flag-style key/value overrides on top of base. Unknown keys
// and unparsable values are reported together. Keys apply in sorted order with
// rng_state last, so an explicit state survives a seed override.
func FromMap(base Config, cfg map[string]string) (Config, error) {
	c := base
	c.Palette = append([]RGB(nil), base.Palette...)
	keys := slices.Sorted(maps.Keys(cfg))
	if i := slices.Index(keys, "rng_state"); i >= 0 {
		keys = append(slices.Delete(keys, i, i+1), "rng_state")
	}
	var errs []error
	for _, k := range keys {
		v := cfg[k]
		if err := c.set(k, v); err != nil {
			errs = append(errs, fmt.Errorf("%s=%s: %w", k, v, err))
		}
	}
	return c, errors.Join(errs...)
}

func (c *Config) set(key, v string) error {
	var err error
	switch key {
	case "w", "width":
		c.Width, err = strconv.Atoi(v)
	case "h", "height":
		c.Height, err = strconv.Atoi(v)
	case "initial_cracks":
		c.InitialCracks, err = strconv.Atoi(v)
	case "max_cracks":
		c.MaxCracks, err = strconv.Atoi(v)
	case "circle_percent":
		c.CirclePercent, err = strconv.Atoi(v)
	case "grains":
		c.Grains, err = strconv.Atoi(v)
	case "max_cycles":
		c.MaxCycles, err = strconv.Atoi(v)
	case "wireframe":
		c.Wireframe, err = strconv.ParseBool(v)
	case "seamless":
		c.Seamless, err = strconv.ParseBool(v)
	case "seed":
		c.Seed, err = strconv.ParseInt(v, 10, 64)
		c.RNGState = ""
	case "rng_state":
		c.RNGState = v
	case "collision_policy":
		c.Collision = CollisionPolicy(v)
	case "foreground":
		c.Foreground, err = ParseHex(v)
	case "background":
		c.Background, err = ParseHex(v)
	case "palette":
		var palette []RGB
		for _, part := range strings.Split(v, ",") {
			col, perr := ParseHex(part)
			if perr != nil {
				return perr
			}
			palette = append(palette, col)
		}
		c.Palette = palette
	default:
		return fmt.Errorf("unknown parameter")
	}
	return err
}
