package check

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/ntt/internal/types"
)

const cacheFileName = "ntt_cache.gob"

// CacheEntry holds the issues found for one version of a file.
type CacheEntry struct {
	Key       string
	Issues    []tt.Issue
	CreatedAt time.Time
}

// Cache stores check results on disk, keyed by file name. An entry is
// only reused while its key, derived from the file content and the
// engine configuration, is unchanged.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.Mutex
	maxAge   time.Duration
	dirty    bool
}

// OpenCache loads the cache stored in cacheDir, creating the directory
// if needed.
func OpenCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
	}
	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return cache, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, cacheFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

// Save writes the cache to disk if it changed since it was loaded.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}
	file, err := os.Create(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *Cache) Set(filename, key string, issues []tt.Issue) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = CacheEntry{
		Key:       key,
		Issues:    issues,
		CreatedAt: time.Now(),
	}
	c.dirty = true
}

func (c *Cache) Get(filename, key string) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}
	if entry.Key != key || (c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge) {
		delete(c.entries, filename)
		c.dirty = true
		return nil, false
	}
	return entry.Issues, true
}

// SetMaxAge expires entries older than d. Zero keeps entries forever.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = d
}

func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	c.dirty = true
}
