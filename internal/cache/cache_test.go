package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallhue/wallhue/internal/colour"
	"github.com/wallhue/wallhue/internal/theme"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPalette() []colour.RGB {
	return []colour.RGB{
		{Red: 200, Green: 100, Blue: 50},
		{Red: 55, Green: 155, Blue: 205},
		{Red: 255, Green: 255, Blue: 255},
	}
}

func TestLookupMissOnEmptyStore(t *testing.T) {
	store := openTestStore(t)

	fingerprints := []theme.Fingerprint{
		{Path: "/wallpapers/dunes.png", Centrality: colour.CentralityAverage},
		{Path: "/wallpapers/dunes.png", Centrality: colour.CentralityPrevalent, Options: theme.Options{Tetratic: true}},
		{Path: "", Centrality: colour.CentralityMedian},
	}

	for _, fp := range fingerprints {
		colours, ok, err := store.Lookup(fp)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, colours)
	}
}

func TestInsertLookupRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fp   theme.Fingerprint
	}{
		{
			name: "default options",
			fp: theme.Fingerprint{
				Path:       "/wallpapers/dunes.png",
				Centrality: colour.CentralityAverage,
			},
		},
		{
			name: "single non-default option",
			fp: theme.Fingerprint{
				Path:       "/wallpapers/dunes.png",
				Centrality: colour.CentralityMedian,
				Options:    theme.Options{Darker: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestStore(t)
			palette := testPalette()

			require.NoError(t, store.Insert(tt.fp, palette))

			got, ok, err := store.Lookup(tt.fp)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, palette, got, "colours must come back in insertion order")
		})
	}
}

func TestLookupPreservesInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	fp := theme.Fingerprint{Path: "img.png", Centrality: colour.CentralityPrevalent}

	// Deliberately unsorted palette; the first colour is semantically the
	// primary one and must stay first.
	palette := []colour.RGB{
		{Red: 255, Green: 255, Blue: 255},
		{Red: 0, Green: 0, Blue: 0},
		{Red: 128, Green: 128, Blue: 128},
	}
	require.NoError(t, store.Insert(fp, palette))

	got, ok, err := store.Lookup(fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, palette, got)
}

func TestFingerprintDiscrimination(t *testing.T) {
	store := openTestStore(t)

	base := theme.Fingerprint{
		Path:       "/wallpapers/dunes.png",
		Centrality: colour.CentralityAverage,
		Options:    theme.Options{Darker: 10},
	}
	require.NoError(t, store.Insert(base, testPalette()))

	misses := []theme.Fingerprint{
		// One option field off by one.
		{Path: base.Path, Centrality: base.Centrality, Options: theme.Options{Darker: 11}},
		// Different option entirely.
		{Path: base.Path, Centrality: base.Centrality, Options: theme.Options{Lighter: 10}},
		// Different centrality.
		{Path: base.Path, Centrality: colour.CentralityMedian, Options: base.Options},
		// Path is an opaque key: no canonicalization.
		{Path: "/wallpapers/./dunes.png", Centrality: base.Centrality, Options: base.Options},
		// No case folding either.
		{Path: "/wallpapers/Dunes.png", Centrality: base.Centrality, Options: base.Options},
	}

	for _, fp := range misses {
		_, ok, err := store.Lookup(fp)
		require.NoError(t, err)
		assert.False(t, ok, "fingerprint %+v must not collide", fp)
	}
}

func TestDuplicateInsertIsInertOnReads(t *testing.T) {
	store := openTestStore(t)
	fp := theme.Fingerprint{Path: "img.png", Centrality: colour.CentralityAverage}

	first := testPalette()
	require.NoError(t, store.Insert(fp, first))
	require.NoError(t, store.Insert(fp, first))

	// Lookup must return the first-created config row's colours exactly
	// once, not a doubled palette.
	got, ok, err := store.Lookup(fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestSharedSourceRowAcrossConfigs(t *testing.T) {
	store := openTestStore(t)

	defaultFP := theme.Fingerprint{Path: "img.png", Centrality: colour.CentralityAverage}
	darkerFP := theme.Fingerprint{Path: "img.png", Centrality: colour.CentralityAverage, Options: theme.Options{Darker: 25}}

	defaultPalette := []colour.RGB{{Red: 1, Green: 2, Blue: 3}}
	darkerPalette := []colour.RGB{{Red: 4, Green: 5, Blue: 6}}

	require.NoError(t, store.Insert(defaultFP, defaultPalette))
	require.NoError(t, store.Insert(darkerFP, darkerPalette))

	got, ok, err := store.Lookup(defaultFP)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, defaultPalette, got)

	got, ok, err = store.Lookup(darkerFP)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, darkerPalette, got)
}

func TestEntries(t *testing.T) {
	store := openTestStore(t)

	first := theme.Fingerprint{Path: "a.png", Centrality: colour.CentralityAverage}
	second := theme.Fingerprint{
		Path:       "b.png",
		Centrality: colour.CentralityPrevalent,
		Options:    theme.Options{HueOffset: 270},
	}

	require.NoError(t, store.Insert(first, testPalette()))
	require.NoError(t, store.Insert(second, testPalette()[:2]))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a.png", entries[0].Path)
	assert.Equal(t, colour.CentralityAverage, entries[0].Centrality)
	assert.True(t, entries[0].Options.IsDefault())
	assert.Equal(t, 3, entries[0].Colours)

	assert.Equal(t, "b.png", entries[1].Path)
	assert.Equal(t, colour.CentralityPrevalent, entries[1].Centrality)
	assert.Equal(t, uint16(270), entries[1].Options.HueOffset)
	assert.Equal(t, 2, entries[1].Colours)
}

func TestEntriesCorruptData(t *testing.T) {
	t.Run("out of range option value", func(t *testing.T) {
		store := openTestStore(t)
		fp := theme.Fingerprint{Path: "a.png", Centrality: colour.CentralityAverage}
		require.NoError(t, store.Insert(fp, testPalette()))

		_, err := store.db.Exec(`UPDATE color_themes SET darker = 900`)
		require.NoError(t, err)

		_, err = store.Entries()
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("unknown centrality", func(t *testing.T) {
		store := openTestStore(t)
		fp := theme.Fingerprint{Path: "a.png", Centrality: colour.CentralityAverage}
		require.NoError(t, store.Insert(fp, testPalette()))

		_, err := store.db.Exec(`UPDATE wallpaper SET centrality = 'mode'`)
		require.NoError(t, err)

		_, err = store.Entries()
		require.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestLookupCorruptColour(t *testing.T) {
	store := openTestStore(t)
	fp := theme.Fingerprint{Path: "a.png", Centrality: colour.CentralityAverage}
	require.NoError(t, store.Insert(fp, testPalette()))

	_, err := store.db.Exec(`UPDATE color SET color = 'garbage'`)
	require.NoError(t, err)

	_, _, err = store.Lookup(fp)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLookupParsesStoredHexCaseInsensitively(t *testing.T) {
	store := openTestStore(t)
	fp := theme.Fingerprint{Path: "a.png", Centrality: colour.CentralityAverage}
	require.NoError(t, store.Insert(fp, []colour.RGB{{Red: 200, Green: 100, Blue: 50}}))

	// Colour text written by other tooling may be uppercase.
	_, err := store.db.Exec(`UPDATE color SET color = '#C86432'`)
	require.NoError(t, err)

	got, ok, err := store.Lookup(fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []colour.RGB{{Red: 200, Green: 100, Blue: 50}}, got)
}
