package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wallhue/wallhue/internal/colour"
)

// Output formats for generated schemes.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// colourEntry is the serialized form of one palette colour.
type colourEntry struct {
	Color string `json:"color" yaml:"color"`
}

// renderPalette serializes a palette in the requested format. Hex text is
// always lowercase with a leading '#'.
func renderPalette(colours []colour.RGB, format string) (string, error) {
	entries := make([]colourEntry, len(colours))
	for i, c := range colours {
		entries[i] = colourEntry{Color: c.Hex()}
	}

	switch format {
	case formatJSON:
		data, err := json.Marshal(entries)
		if err != nil {
			return "", fmt.Errorf("failed to serialize palette as json: %w", err)
		}
		return string(data) + "\n", nil
	case formatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", fmt.Errorf("failed to serialize palette as yaml: %w", err)
		}
		return string(data), nil
	case formatText:
		hexes := make([]string, len(colours))
		for i, c := range colours {
			hexes[i] = c.Hex()
		}
		return strings.Join(hexes, ",") + "\n", nil
	default:
		return "", fmt.Errorf("unknown serialization format: %q (valid formats: json, yaml, text)", format)
	}
}
