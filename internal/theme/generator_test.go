package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallhue/wallhue/internal/colour"
)

// memoryCache is an in-memory Cache used to isolate the generator from
// storage.
type memoryCache struct {
	entries map[Fingerprint][]colour.RGB
	lookups int
	inserts int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[Fingerprint][]colour.RGB)}
}

func (m *memoryCache) Lookup(fp Fingerprint) ([]colour.RGB, bool, error) {
	m.lookups++
	if m.err != nil {
		return nil, false, m.err
	}
	colours, ok := m.entries[fp]
	return colours, ok, nil
}

func (m *memoryCache) Insert(fp Fingerprint, colours []colour.RGB) error {
	m.inserts++
	if m.err != nil {
		return m.err
	}
	m.entries[fp] = colours
	return nil
}

// stubSource serves a fixed pixel sequence and counts calls.
type stubSource struct {
	pixels []colour.RGB
	err    error
	calls  int
}

func (s *stubSource) Pixels(string) ([]colour.RGB, error) {
	s.calls++
	return s.pixels, s.err
}

// stubTransformer echoes back a canned palette and records its inputs.
type stubTransformer struct {
	palette      []colour.RGB
	err          error
	calls        int
	gotPrimary   colour.RGB
	gotSecondary *colour.RGB
}

func (s *stubTransformer) Transform(_ context.Context, _ Options, primary colour.RGB, secondary *colour.RGB) ([]colour.RGB, error) {
	s.calls++
	s.gotPrimary = primary
	s.gotSecondary = secondary
	if s.err != nil {
		return nil, s.err
	}
	return s.palette, nil
}

func uniformPixels(c colour.RGB, n int) []colour.RGB {
	pixels := make([]colour.RGB, n)
	for i := range pixels {
		pixels[i] = c
	}
	return pixels
}

func TestGetOrComputeCachesResult(t *testing.T) {
	base := colour.RGB{Red: 200, Green: 100, Blue: 50}
	palette := []colour.RGB{base}

	cache := newMemoryCache()
	source := &stubSource{pixels: uniformPixels(base, 9)}
	transformer := &stubTransformer{palette: palette}
	gen := NewGenerator(cache, source, transformer, nil)

	ctx := context.Background()

	// First call misses the cache and computes.
	got, err := gen.GetOrCompute(ctx, "/wallpapers/dunes.png", colour.CentralityAverage, Options{})
	require.NoError(t, err)
	assert.Equal(t, palette, got)
	assert.Equal(t, "#c86432", transformer.gotPrimary.Hex())
	assert.Nil(t, transformer.gotSecondary)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, transformer.calls)
	assert.Equal(t, 1, cache.inserts)

	// Second call must short-circuit: no pixel load, no transform.
	got, err = gen.GetOrCompute(ctx, "/wallpapers/dunes.png", colour.CentralityAverage, Options{})
	require.NoError(t, err)
	assert.Equal(t, palette, got)
	assert.Equal(t, 1, source.calls, "pixel source must not be invoked on a cache hit")
	assert.Equal(t, 1, transformer.calls, "transformer must not be invoked on a cache hit")
	assert.Equal(t, 1, cache.inserts)
}

func TestGetOrComputePrevalentTwoColours(t *testing.T) {
	frequent := colour.RGB{Red: 10, Green: 20, Blue: 30}
	rare := colour.RGB{Red: 40, Green: 50, Blue: 60}
	pixels := append(uniformPixels(frequent, 5), uniformPixels(rare, 2)...)

	cache := newMemoryCache()
	transformer := &stubTransformer{palette: []colour.RGB{frequent, rare}}
	gen := NewGenerator(cache, &stubSource{pixels: pixels}, transformer, nil)

	_, err := gen.GetOrCompute(context.Background(), "img.png", colour.CentralityPrevalent, Options{Blends: 2})
	require.NoError(t, err)

	assert.Equal(t, frequent, transformer.gotPrimary)
	require.NotNil(t, transformer.gotSecondary)
	assert.Equal(t, rare, *transformer.gotSecondary)
}

func TestGetOrComputePrevalentSingleColour(t *testing.T) {
	frequent := colour.RGB{Red: 10, Green: 20, Blue: 30}
	pixels := append(uniformPixels(frequent, 5), colour.RGB{Red: 1})

	cache := newMemoryCache()
	transformer := &stubTransformer{palette: []colour.RGB{frequent}}
	gen := NewGenerator(cache, &stubSource{pixels: pixels}, transformer, nil)

	_, err := gen.GetOrCompute(context.Background(), "img.png", colour.CentralityPrevalent, Options{Triadic: true})
	require.NoError(t, err)

	assert.Equal(t, frequent, transformer.gotPrimary)
	assert.Nil(t, transformer.gotSecondary)
}

func TestGetOrComputeFailures(t *testing.T) {
	base := colour.RGB{Red: 1, Green: 2, Blue: 3}

	t.Run("pixel source failure aborts", func(t *testing.T) {
		cache := newMemoryCache()
		source := &stubSource{err: errors.New("not a decodable image")}
		transformer := &stubTransformer{}
		gen := NewGenerator(cache, source, transformer, nil)

		_, err := gen.GetOrCompute(context.Background(), "broken.png", colour.CentralityAverage, Options{})
		require.Error(t, err)
		assert.Equal(t, 0, transformer.calls)
		assert.Equal(t, 0, cache.inserts)
	})

	t.Run("transformer failure propagates and nothing is cached", func(t *testing.T) {
		cache := newMemoryCache()
		transformer := &stubTransformer{err: ErrTransformerFailed}
		gen := NewGenerator(cache, &stubSource{pixels: uniformPixels(base, 3)}, transformer, nil)

		_, err := gen.GetOrCompute(context.Background(), "img.png", colour.CentralityAverage, Options{})
		require.ErrorIs(t, err, ErrTransformerFailed)
		assert.Equal(t, 0, cache.inserts)
	})

	t.Run("storage failure is surfaced", func(t *testing.T) {
		cache := newMemoryCache()
		cache.err = errors.New("database file unavailable")
		gen := NewGenerator(cache, &stubSource{pixels: uniformPixels(base, 3)}, &stubTransformer{}, nil)

		_, err := gen.GetOrCompute(context.Background(), "img.png", colour.CentralityAverage, Options{})
		require.Error(t, err)
	})

	t.Run("empty pixel sequence is an input error", func(t *testing.T) {
		cache := newMemoryCache()
		gen := NewGenerator(cache, &stubSource{}, &stubTransformer{}, nil)

		_, err := gen.GetOrCompute(context.Background(), "empty.png", colour.CentralityAverage, Options{})
		require.ErrorIs(t, err, colour.ErrNoPixels)
	})

	t.Run("unknown centrality", func(t *testing.T) {
		cache := newMemoryCache()
		gen := NewGenerator(cache, &stubSource{pixels: uniformPixels(base, 3)}, &stubTransformer{}, nil)

		_, err := gen.GetOrCompute(context.Background(), "img.png", colour.Centrality("mode"), Options{})
		require.Error(t, err)
	})
}
