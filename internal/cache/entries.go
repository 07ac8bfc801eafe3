package cache

import (
	"fmt"

	"github.com/wallhue/wallhue/internal/colour"
	"github.com/wallhue/wallhue/internal/theme"
)

// Entry describes one cached scheme: the fingerprint it was stored under
// and how many colours it holds.
type Entry struct {
	Path       string
	Centrality colour.Centrality
	Options    theme.Options
	Colours    int
}

// Entries enumerates every cached scheme in insertion order. Stored values
// are converted back to their domain types with full range validation;
// anything out of range surfaces as an ErrCorrupt, never a clamped value.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT w.path, w.centrality, ` + qualifiedOptionColumns("ct") + `,
		        (SELECT COUNT(*) FROM color c WHERE c.color_themes = ct.rowid)
		 FROM color_themes ct
		 JOIN wallpaper w ON w.rowid = ct.wallpaper
		 ORDER BY ct.rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			path       string
			centrality string
			raw        [15]int64
			colours    int
		)
		dest := []any{&path, &centrality}
		for i := range raw {
			dest = append(dest, &raw[i])
		}
		dest = append(dest, &colours)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}

		entry, err := buildEntry(path, centrality, raw, colours)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}

	return entries, nil
}

// buildEntry converts one scanned row back to domain types.
func buildEntry(path, centrality string, raw [15]int64, colours int) (Entry, error) {
	parsed, err := colour.ParseCentrality(centrality)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	darker, err := percentValue("darker", raw[0])
	if err != nil {
		return Entry{}, err
	}
	lighter, err := percentValue("lighter", raw[1])
	if err != nil {
		return Entry{}, err
	}
	hueOffset, err := angleValue("hueOffset", raw[4])
	if err != nil {
		return Entry{}, err
	}
	monochromatic, err := countValue("monochromatic", raw[10])
	if err != nil {
		return Entry{}, err
	}
	shades, err := countValue("shades", raw[11])
	if err != nil {
		return Entry{}, err
	}
	tints, err := countValue("tints", raw[12])
	if err != nil {
		return Entry{}, err
	}
	tones, err := countValue("tones", raw[13])
	if err != nil {
		return Entry{}, err
	}
	blends, err := countValue("blends", raw[14])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Path:       path,
		Centrality: parsed,
		Options: theme.Options{
			Darker:             darker,
			Lighter:            lighter,
			Complementary:      raw[2] != 0,
			Contrast:           raw[3] != 0,
			HueOffset:          hueOffset,
			Triadic:            raw[5] != 0,
			Quadratic:          raw[6] != 0,
			Tetratic:           raw[7] != 0,
			Analogous:          raw[8] != 0,
			SplitComplementary: raw[9] != 0,
			Monochromatic:      monochromatic,
			Shades:             shades,
			Tints:              tints,
			Tones:              tones,
			Blends:             blends,
		},
		Colours: colours,
	}, nil
}

func percentValue(column string, v int64) (uint8, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %s value %d outside 0-100", ErrCorrupt, column, v)
	}
	return uint8(v), nil
}

func angleValue(column string, v int64) (uint16, error) {
	if v < 0 || v > 360 {
		return 0, fmt.Errorf("%w: %s value %d outside 0-360", ErrCorrupt, column, v)
	}
	return uint16(v), nil
}

func countValue(column string, v int64) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s value %d outside 0-255", ErrCorrupt, column, v)
	}
	return uint8(v), nil
}

// qualifiedOptionColumns prefixes every option column with a table alias.
func qualifiedOptionColumns(alias string) string {
	out := ""
	for i, col := range optionColumnList() {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + col
	}
	return out
}

func optionColumnList() []string {
	return []string{
		"darker", "lighter", "complementary", "contrast", "hueOffset",
		"triadic", "quadratic", "tetratic", "analogous", "splitComplementary",
		"monochromatic", "shades", "tints", "tones", "blends",
	}
}
