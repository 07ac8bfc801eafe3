package theme

import "github.com/wallhue/wallhue/internal/colour"

// Fingerprint identifies one cacheable computation. The path is treated as
// an opaque key: no canonicalization, no case folding, no content hashing.
// Two fingerprints are equal iff every component matches exactly, which is
// the only match semantics the cache supports.
type Fingerprint struct {
	Path       string
	Centrality colour.Centrality
	Options    Options
}
