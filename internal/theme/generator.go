package theme

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/wallhue/wallhue/internal/colour"
)

// PixelSource provides the decoded pixels of an image in row-major order.
type PixelSource interface {
	Pixels(path string) ([]colour.RGB, error)
}

// Cache is the persistent scheme store the generator memoizes through.
type Cache interface {
	// Lookup returns the cached palette for a fingerprint. ok is false on
	// a miss; err is reserved for storage failures.
	Lookup(fp Fingerprint) (colours []colour.RGB, ok bool, err error)

	// Insert persists a palette under a fingerprint, preserving order.
	Insert(fp Fingerprint, colours []colour.RGB) error
}

// Generator composes the cache, the pixel statistics and the external
// transformer. One instance serves one invocation; it holds no state of
// its own.
type Generator struct {
	cache       Cache
	pixels      PixelSource
	transformer Transformer
	logger      hclog.Logger
}

// NewGenerator creates a Generator. A nil logger is replaced with a no-op
// logger.
func NewGenerator(cache Cache, pixels PixelSource, transformer Transformer, logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Generator{
		cache:       cache,
		pixels:      pixels,
		transformer: transformer,
		logger:      logger,
	}
}

// GetOrCompute returns the palette for (path, centrality, options), serving
// it from the cache when present and computing, persisting and returning it
// otherwise. Any failure aborts the whole request; nothing is retried.
func (g *Generator) GetOrCompute(ctx context.Context, path string, centrality colour.Centrality, opts Options) ([]colour.RGB, error) {
	fp := Fingerprint{Path: path, Centrality: centrality, Options: opts}

	colours, ok, err := g.cache.Lookup(fp)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if ok {
		g.logger.Debug("cache hit", "path", path, "centrality", centrality, "colours", len(colours))
		return colours, nil
	}

	g.logger.Debug("cache miss, analysing image", "path", path, "centrality", centrality)

	pixels, err := g.pixels.Pixels(path)
	if err != nil {
		return nil, fmt.Errorf("loading pixels: %w", err)
	}

	representatives, err := g.representatives(pixels, centrality, opts)
	if err != nil {
		return nil, err
	}

	primary := representatives[0]
	var secondary *colour.RGB
	if len(representatives) > 1 {
		secondary = &representatives[1]
	}

	colours, err = g.transformer.Transform(ctx, opts, primary, secondary)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Insert(fp, colours); err != nil {
		return nil, fmt.Errorf("cache insert: %w", err)
	}

	return colours, nil
}

// representatives reduces the pixels under the chosen centrality. Average
// and Median yield exactly one colour; Prevalent yields two when the
// requested transformation consumes two.
func (g *Generator) representatives(pixels []colour.RGB, centrality colour.Centrality, opts Options) ([]colour.RGB, error) {
	switch centrality {
	case colour.CentralityAverage:
		c, err := colour.Average(pixels)
		if err != nil {
			return nil, err
		}
		return []colour.RGB{c}, nil
	case colour.CentralityMedian:
		c, err := colour.Median(pixels)
		if err != nil {
			return nil, err
		}
		return []colour.RGB{c}, nil
	case colour.CentralityPrevalent:
		count := 1
		if opts.NeedsTwoColours() {
			count = 2
		}
		return colour.Prevalent(pixels, count)
	default:
		return nil, fmt.Errorf("unknown centrality: %q", centrality)
	}
}
