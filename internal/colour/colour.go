// Package colour provides the RGB value type and the pixel statistics used
// to reduce an image to its representative colours.
package colour

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a colour with 8-bit red, green and blue channels.
type RGB struct {
	Red   uint8 `json:"red" yaml:"red"`
	Green uint8 `json:"green" yaml:"green"`
	Blue  uint8 `json:"blue" yaml:"blue"`
}

// Hex returns the colour as a lowercase hex string (e.g. "#1a2b3c").
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// ParseHex parses a 6-digit hex colour string ("#rrggbb", case-insensitive)
// into an RGB. Shorthand forms and missing prefixes are rejected.
func ParseHex(s string) (RGB, error) {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected \"#rrggbb\"", s)
	}
	parsed, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := parsed.RGB255()
	return RGB{Red: r, Green: g, Blue: b}, nil
}
