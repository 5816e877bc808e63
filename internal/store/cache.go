package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/validator"
)

// cacheEntry is the on-disk shape of one cached result.
type cacheEntry struct {
	Framework frameworks.Framework `json:"framework"`
	Result    validator.Result     `json:"result"`
}

// Cache is a read-through result cache keyed by content hash. A hit is
// only valid for the same framework: the same bytes validate differently
// under different import vocabularies. Entries are stored as plain JSON;
// a result is a handful of short strings, too small for compression to
// pay off.
type Cache struct {
	dir string
}

// OpenCache creates (if needed) and opens a cache directory.
func OpenCache(dir string) (*Cache, error) {
	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &Cache{dir: dir}, nil
}

// Get returns the cached result for a content hash, if present and
// recorded under the same framework.
func (c *Cache) Get(hash string, fw frameworks.Framework) (validator.Result, bool) {
	raw, err := os.ReadFile(c.entryPath(hash))
	if err != nil {
		return validator.Result{}, false
	}

	var entry cacheEntry

	unmarshalErr := json.Unmarshal(raw, &entry)
	if unmarshalErr != nil || entry.Framework != fw {
		return validator.Result{}, false
	}

	return entry.Result, true
}

// Put stores a result under its content hash. Failures are returned but
// callers may treat them as non-fatal; the cache is an optimization.
func (c *Cache) Put(hash string, fw frameworks.Framework, result validator.Result) error {
	data, err := json.Marshal(cacheEntry{Framework: fw, Result: result})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	writeErr := os.WriteFile(c.entryPath(hash), data, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write cache entry: %w", writeErr)
	}

	return nil
}

func (c *Cache) entryPath(hash string) string {
	return filepath.Join(c.dir, hash+".json")
}
