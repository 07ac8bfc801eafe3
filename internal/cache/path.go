package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvCacheFile overrides the cache file location when set.
const EnvCacheFile = "WALLHUE_CACHE_FILE"

// DefaultPath resolves the cache file location: the EnvCacheFile override
// when set, otherwise cache.db under the user cache directory. The parent
// directory is created if missing.
func DefaultPath() (string, error) {
	if override := os.Getenv(EnvCacheFile); override != "" {
		if err := os.MkdirAll(filepath.Dir(override), 0o755); err != nil {
			return "", fmt.Errorf("failed to create cache directory: %w", err)
		}
		return override, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir not available.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}

	dir := filepath.Join(cacheDir, "wallhue")
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return filepath.Join(dir, "cache.db"), nil
}
