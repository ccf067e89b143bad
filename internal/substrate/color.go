package substrate

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is a color with floating-point channels in [0, 255]. Blending keeps the
// fractional part so repeated low-alpha deposits accumulate smoothly.
type RGB struct {
	R, G, B float64
}

// Color converts the value to an 8-bit color, rounding each channel.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Lerp moves c toward target by alpha. Alpha at or above 1 replaces c outright.
func (c RGB) Lerp(target RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return target
	}
	return RGB{
		R: c.R + (target.R-c.R)*alpha,
		G: c.G + (target.G-c.G)*alpha,
		B: c.B + (target.B-c.B)*alpha,
	}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	rgba := c.Color()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// ParseHex parses #rrggbb (the leading # is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: float64(v >> 16 & 0xff), G: float64(v >> 8 & 0xff), B: float64(v & 0xff)}, nil
}

// MarshalYAML writes the color as a hex string.
func (c RGB) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// UnmarshalYAML accepts a hex string.
func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
