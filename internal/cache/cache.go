// Package cache persists generated colour schemes in a local SQLite file
// so repeat requests for the same image, centrality and transformation
// return without recomputation.
//
// The store is three dependent relations: wallpaper (image path +
// centrality), color_themes (the full option vector, referencing a
// wallpaper row) and color (one palette colour, referencing both). Rows are
// only ever appended; reads always select the first matching row by rowid,
// which keeps duplicate writes from concurrent invocations inert.
package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite" // Register the sqlite driver

	"github.com/wallhue/wallhue/internal/colour"
	"github.com/wallhue/wallhue/internal/theme"
)

// ErrCorrupt marks stored data that cannot be converted back to its domain
// type: malformed colour text, an unknown centrality, or an option value
// outside its documented range. Values are never silently clamped.
var ErrCorrupt = errors.New("cache data corrupt")

const schema = `
CREATE TABLE IF NOT EXISTS wallpaper(
	path TEXT NOT NULL,
	centrality TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS color_themes(
	darker INTEGER NOT NULL,
	lighter INTEGER NOT NULL,
	complementary INTEGER NOT NULL,
	contrast INTEGER NOT NULL,
	hueOffset INTEGER NOT NULL,
	triadic INTEGER NOT NULL,
	quadratic INTEGER NOT NULL,
	tetratic INTEGER NOT NULL,
	analogous INTEGER NOT NULL,
	splitComplementary INTEGER NOT NULL,
	monochromatic INTEGER NOT NULL,
	shades INTEGER NOT NULL,
	tints INTEGER NOT NULL,
	tones INTEGER NOT NULL,
	blends INTEGER NOT NULL,
	wallpaper INTEGER NOT NULL,
	FOREIGN KEY(wallpaper) REFERENCES wallpaper(rowid)
);
CREATE TABLE IF NOT EXISTS color(
	color TEXT NOT NULL,
	wallpaper INTEGER NOT NULL,
	color_themes INTEGER NOT NULL,
	FOREIGN KEY(wallpaper) REFERENCES wallpaper(rowid),
	FOREIGN KEY(color_themes) REFERENCES color_themes(rowid)
);`

// optionColumns lists the color_themes option columns in their canonical
// order, shared by every statement touching the table.
const optionColumns = "darker, lighter, complementary, contrast, hueOffset, triadic, quadratic, tetratic, analogous, splitComplementary, monochromatic, shades, tints, tones, blends"

// Store is a SQLite-backed scheme cache. It assumes single-process access
// per invocation and relies on SQLite's own locking beyond that.
type Store struct {
	db     *sql.DB
	logger hclog.Logger
}

// Open opens (creating if necessary) the cache file at path and ensures
// the schema exists. Tables are only ever created, never migrated.
func Open(path string, logger hclog.Logger) (*Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	logger.Debug("cache opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached palette for a fingerprint in original insertion
// order. ok is false when the source or config row is absent (a normal
// miss); err is reserved for storage failures and corrupt stored data.
func (s *Store) Lookup(fp theme.Fingerprint) ([]colour.RGB, bool, error) {
	sourceID, ok, err := s.sourceID(fp.Path, fp.Centrality)
	if err != nil || !ok {
		return nil, false, err
	}

	configID, ok, err := s.configID(fp.Options, sourceID)
	if err != nil || !ok {
		return nil, false, err
	}

	rows, err := s.db.Query(
		`SELECT color FROM color WHERE wallpaper = ? AND color_themes = ? ORDER BY rowid`,
		sourceID, configID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query colours: %w", err)
	}
	defer rows.Close()

	var colours []colour.RGB
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, false, fmt.Errorf("failed to scan colour row: %w", err)
		}
		c, err := colour.ParseHex(hex)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		colours = append(colours, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read colour rows: %w", err)
	}

	return colours, true, nil
}

// Insert persists a palette under a fingerprint. Writes happen in strict
// dependency order: the source row is fetched or created first, then a
// config row referencing it, then one colour row per palette entry in
// caller order. Re-inserting an existing fingerprint appends a fresh
// config row; Lookup's first-match rule keeps the duplicate invisible.
func (s *Store) Insert(fp theme.Fingerprint, colours []colour.RGB) error {
	sourceID, ok, err := s.sourceID(fp.Path, fp.Centrality)
	if err != nil {
		return err
	}
	if !ok {
		res, err := s.db.Exec(
			`INSERT INTO wallpaper(path, centrality) VALUES (?, ?)`,
			fp.Path, fp.Centrality.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert wallpaper row: %w", err)
		}
		sourceID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read wallpaper rowid: %w", err)
		}
	}

	args := append(optionValues(fp.Options), sourceID)
	res, err := s.db.Exec(
		`INSERT INTO color_themes(`+optionColumns+`, wallpaper)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert color_themes row: %w", err)
	}
	configID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read color_themes rowid: %w", err)
	}

	for _, c := range colours {
		if _, err := s.db.Exec(
			`INSERT INTO color(color, wallpaper, color_themes) VALUES (?, ?, ?)`,
			c.Hex(), sourceID, configID,
		); err != nil {
			return fmt.Errorf("failed to insert colour row: %w", err)
		}
	}

	s.logger.Debug("cached scheme", "path", fp.Path, "centrality", fp.Centrality, "colours", len(colours))
	return nil
}

// sourceID finds the wallpaper row for (path, centrality). When duplicates
// exist the oldest row wins.
func (s *Store) sourceID(path string, centrality colour.Centrality) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT rowid FROM wallpaper WHERE path = ? AND centrality = ? ORDER BY rowid LIMIT 1`,
		path, centrality.String(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query wallpaper row: %w", err)
	}
	return id, true, nil
}

// configID finds the config row matching every option field exactly under
// the given source row. When duplicates exist the oldest row wins, which
// is what makes duplicate inserts inert on the read side.
func (s *Store) configID(o theme.Options, sourceID int64) (int64, bool, error) {
	args := append(optionValues(o), sourceID)

	var id int64
	err := s.db.QueryRow(
		`SELECT rowid FROM color_themes
		 WHERE darker = ? AND lighter = ? AND complementary = ? AND contrast = ?
		   AND hueOffset = ? AND triadic = ? AND quadratic = ? AND tetratic = ?
		   AND analogous = ? AND splitComplementary = ? AND monochromatic = ?
		   AND shades = ? AND tints = ? AND tones = ? AND blends = ?
		   AND wallpaper = ?
		 ORDER BY rowid LIMIT 1`,
		args...,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query color_themes row: %w", err)
	}
	return id, true, nil
}

// optionValues renders an option vector as bind parameters in
// optionColumns order.
func optionValues(o theme.Options) []any {
	return []any{
		int64(o.Darker),
		int64(o.Lighter),
		boolInt(o.Complementary),
		boolInt(o.Contrast),
		int64(o.HueOffset),
		boolInt(o.Triadic),
		boolInt(o.Quadratic),
		boolInt(o.Tetratic),
		boolInt(o.Analogous),
		boolInt(o.SplitComplementary),
		int64(o.Monochromatic),
		int64(o.Shades),
		int64(o.Tints),
		int64(o.Tones),
		int64(o.Blends),
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
