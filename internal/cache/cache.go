package cache

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
)

// Ext is the file extension of cache entries.
const Ext = ".data"

// TempGrace is how long Clear leaves a temporary file alone, since a
// concurrent Store may still be writing it.
const TempGrace = time.Minute

// DefaultMaxAge is how long an entry survives before the sweep removes it.
const DefaultMaxAge = 24 * time.Hour

// Cache stores JavaScript source text in content-addressed files.
type Cache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// New creates a Cache rooted at dir. If dir is empty, uses [DefaultDir].
// A non-positive maxAge selects [DefaultMaxAge]. The directory is created
// lazily by [Cache.Store].
func New(dir string, maxAge time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Cache{
		dir:    dir,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// Store writes source to its content-addressed entry and returns the path.
// Stale entries are swept first. An entry that already exists is returned
// as is, so identical source is never written twice.
func (c *Cache) Store(source string) (string, error) {
	c.Clean()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	path := c.EntryPath(source)
	if _, err := os.Stat(path); err == nil {
		log.Debugf("cache hit %s", path)
		return path, nil
	}

	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating cache entry: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache entry: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		// Another writer published the same content first.
		if _, statErr := os.Stat(path); statErr == nil {
			return path, nil
		}
		return "", fmt.Errorf("publishing cache entry: %w", err)
	}
	log.Debugf("cache store %s", path)
	return path, nil
}

// CleanResult reports the outcome of a sweep.
type CleanResult struct {
	Removed int
	Errors  []error
}

// Clean removes every file older than the cache's max age. Failures to
// remove individual files are collected in the result and logged, never
// returned to the caller of [Cache.Store].
func (c *Cache) Clean() CleanResult {
	var res CleanResult
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("reading cache directory %s", c.dir)
			res.Errors = append(res.Errors, err)
		}
		return res
	}

	cutoff := c.now().Add(-c.maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed by a concurrent sweep.
			continue
		}
		if !createdAt(info).Before(cutoff) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			res.Errors = append(res.Errors, err)
			continue
		}
		log.Debugf("removed cache file %s", path)
		res.Removed++
	}
	return res
}

// Clear removes all cache entries and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	var removed int
	graceCutoff := c.now().Add(-TempGrace)
	for _, e := range entries {
		if e.IsDir() || !isCacheFile(e.Name()) {
			continue
		}
		if isTempFile(e.Name()) {
			info, err := e.Info()
			if err != nil || !info.ModTime().Before(graceCutoff) {
				continue
			}
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats returns cache statistics.
type Stats struct {
	Dir        string    `json:"dir"`
	Entries    int       `json:"entries"`
	TotalBytes int64     `json:"totalBytes"`
	Stale      int       `json:"stale"`
	Oldest     time.Time `json:"oldest,omitempty"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	cutoff := c.now().Add(-c.maxAge)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		created := createdAt(info)
		if created.Before(cutoff) {
			stats.Stale++
		}
		if stats.Oldest.IsZero() || created.Before(stats.Oldest) {
			stats.Oldest = created
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// MaxAge returns the age after which entries are swept.
func (c *Cache) MaxAge() time.Duration {
	return c.maxAge
}

// EntryPath returns the path of the entry that holds source.
func (c *Cache) EntryPath(source string) string {
	return filepath.Join(c.dir, Checksum(source)+Ext)
}

// Checksum returns the hex-encoded MD5 digest of source.
func Checksum(source string) string {
	h := md5.Sum([]byte(source))
	return hex.EncodeToString(h[:])
}

// createdAt returns when a cache file was created. Entries are published by
// rename and never modified afterwards, so the modification time is the
// creation time.
func createdAt(info fs.FileInfo) time.Time {
	return info.ModTime()
}

func isCacheFile(name string) bool {
	return filepath.Ext(name) == Ext || isTempFile(name)
}

func isTempFile(name string) bool {
	return strings.HasSuffix(name, ".tmp")
}

// DefaultDir returns the Assets/cache directory next to the running binary.
func DefaultDir() (string, error) {
	assets, err := AssetsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(assets, "cache"), nil
}

// AssetsDir returns the Assets directory next to the running binary.
func AssetsDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot determine executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "Assets"), nil
}
