package caching

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/dtnitsch/wiki-wordcloud/models"
)

const recordExt = ".json"

// Cache stores one JSON record per category with a freshness TTL.
// It has no locking: concurrent writers for the same category overwrite
// each other.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = models.DefaultCacheTTL
	}
	c := &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key turns a category name into a filename-safe token by replacing every
// rune that is not a letter or number with "_". Distinct names can map to the
// same key ("Space probes" and "Space-probes"); such categories share a record.
func Key(category string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, category)
}

// Path returns the record location for a category.
func (c *Cache) Path(category string) string {
	return filepath.Join(c.path, Key(category)+recordExt)
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Lookup returns the stored frequencies if the record exists, parses and is
// still fresh. Any failure is a cache miss.
func (c *Cache) Lookup(category string) (models.FrequencyTable, bool) {
	freq, ts, ok := c.read(c.Path(category))
	if !ok {
		return nil, false // Cache miss
	}
	if !c.fresh(ts) {
		return nil, false // Cache miss (expired)
	}
	return freq, true // Cache hit
}

// LookupStale returns the stored frequencies regardless of age. It is the
// fallback used when regeneration fails.
func (c *Cache) LookupStale(category string) (models.FrequencyTable, time.Time, bool) {
	return c.read(c.Path(category))
}

// Store writes a record with the current time, overwriting any prior record.
func (c *Cache) Store(category string, frequencies models.FrequencyTable) error {
	if err := os.MkdirAll(c.path, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	ts := c.now().Format(time.RFC3339Nano)
	if frequencies == nil {
		frequencies = models.FrequencyTable{}
	}
	data, err := json.MarshalIndent(models.CacheRecord{
		Timestamp:   &ts,
		Frequencies: frequencies,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}

	if err := os.WriteFile(c.Path(category), data, 0600); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// List describes every record in the cache directory, newest first.
// Records that fail to parse are included with Corrupt set.
func (c *Cache) List() ([]models.RecordInfo, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var infos []models.RecordInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != recordExt {
			continue
		}
		path := filepath.Join(c.path, entry.Name())
		info := models.RecordInfo{
			Key:  strings.TrimSuffix(entry.Name(), recordExt),
			Path: path,
		}
		if fi, err := entry.Info(); err == nil {
			info.SizeBytes = fi.Size()
		}

		freq, ts, ok := c.read(path)
		if !ok {
			info.Corrupt = true
		} else {
			info.Timestamp = ts
			info.Words = len(freq)
			info.Fresh = c.fresh(ts)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// Purge removes records older than olderThan, plus records that cannot be
// parsed. It returns the number of files removed.
func (c *Cache) Purge(olderThan time.Duration) (int, error) {
	infos, err := c.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, info := range infos {
		if !info.Corrupt && c.now().Sub(info.Timestamp) <= olderThan {
			continue
		}
		if err := os.Remove(info.Path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", info.Path, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (c *Cache) fresh(ts time.Time) bool {
	return c.now().Sub(ts) <= c.ttl
}

// read loads and validates a record file.
func (c *Cache) read(path string) (models.FrequencyTable, time.Time, bool) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, time.Time{}, false // Cache miss (missing or unreadable)
	}

	var record models.CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, time.Time{}, false
	}
	if record.Timestamp == nil || record.Frequencies == nil {
		return nil, time.Time{}, false
	}

	ts, err := ParseTimestamp(*record.Timestamp)
	if err != nil {
		return nil, time.Time{}, false
	}
	return record.Frequencies, ts, true
}

// timestampLayouts are tried in order. The naive layouts accept records
// written without a zone offset, which are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 record timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	for i, layout := range timestampLayouts {
		var (
			ts  time.Time
			err error
		)
		if i == 0 {
			ts, err = time.Parse(layout, s)
		} else {
			ts, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
