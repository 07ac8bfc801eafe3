// Package theme turns representative colours into cached colour schemes via
// an external palette-transformation tool.
package theme

import "strconv"

// Options is the palette-transformation request vector. At most one field
// may hold a non-default value at a time; the CLI layer enforces that
// before the core sees the vector, so nothing here re-validates it. An
// all-default vector is a valid, distinct request meaning the transformer's
// built-in fallback scheme.
type Options struct {
	// Darker darkens the representative colour by a percentage (0-100).
	Darker uint8
	// Lighter lightens the representative colour by a percentage (0-100).
	Lighter uint8
	// Complementary selects the colour opposite on the colour wheel.
	Complementary bool
	// Contrast selects the highest-contrasting colour.
	Contrast bool
	// HueOffset rotates the hue by an angle in degrees (0-360).
	HueOffset uint16
	// Triadic selects three equally spaced colours around the wheel.
	Triadic bool
	// Quadratic selects four equally spaced colours around the wheel.
	Quadratic bool
	// Tetratic combines two representative colours with their complements.
	Tetratic bool
	// Analogous selects the two colours adjacent to the representative one.
	Analogous bool
	// SplitComplementary selects the two colours adjacent to the complement.
	SplitComplementary bool
	// Monochromatic produces n same-hue colours with varied saturation.
	Monochromatic uint8
	// Shades produces n colours blended towards black.
	Shades uint8
	// Tints produces n colours blended towards white.
	Tints uint8
	// Tones produces n colours blended towards gray.
	Tones uint8
	// Blends produces n colours interpolated between two representatives.
	Blends uint8
}

// IsDefault reports whether every field holds its zero value.
func (o Options) IsDefault() bool {
	return o == Options{}
}

// NeedsTwoColours reports whether the requested transformation consumes a
// second representative colour.
func (o Options) NeedsTwoColours() bool {
	return o.Tetratic || o.Blends > 0
}

// Args renders the request as arguments for the external transformation
// tool. An all-default vector falls back to the quadratic scheme.
func (o Options) Args() []string {
	switch {
	case o.Darker > 0:
		return []string{"--darker", strconv.Itoa(int(o.Darker))}
	case o.Lighter > 0:
		return []string{"--lighter", strconv.Itoa(int(o.Lighter))}
	case o.Complementary:
		return []string{"--complementary"}
	case o.Contrast:
		return []string{"--contrast"}
	case o.HueOffset > 0:
		return []string{"--hue-offset", strconv.Itoa(int(o.HueOffset))}
	case o.Triadic:
		return []string{"--triadic"}
	case o.Quadratic:
		return []string{"--quadratic"}
	case o.Tetratic:
		return []string{"--tetratic"}
	case o.Analogous:
		return []string{"--analogous"}
	case o.SplitComplementary:
		return []string{"--split-complementary"}
	case o.Monochromatic > 0:
		return []string{"--monochromatic", strconv.Itoa(int(o.Monochromatic))}
	case o.Shades > 0:
		return []string{"--shades", strconv.Itoa(int(o.Shades))}
	case o.Tints > 0:
		return []string{"--tints", strconv.Itoa(int(o.Tints))}
	case o.Tones > 0:
		return []string{"--tones", strconv.Itoa(int(o.Tones))}
	case o.Blends > 0:
		return []string{"--blends", strconv.Itoa(int(o.Blends))}
	default:
		// Quadratic and the all-default fallback share a scheme.
		return []string{"--quadratic"}
	}
}
