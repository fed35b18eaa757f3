package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// fileQuoteCache implements domain.QuoteCache on a single JSON file.
// The file is overwritten on every successful live fetch, never
// appended or merged. Both operations fail soft: caching is
// best-effort and must never block the fetch path. Access is not
// protected against concurrent writers; the analyzer is a
// single-process periodic job.
type fileQuoteCache struct {
	path string
	now  func() time.Time
}

// NewFileQuoteCache creates a new file-backed quote cache
func NewFileQuoteCache(path string) domain.QuoteCache {
	return &fileQuoteCache{
		path: path,
		now:  time.Now,
	}
}

// cacheFile is the on-disk format: the price triple, the fetch
// timestamp in ISO-8601 and the source identifier
type cacheFile struct {
	Data      domain.PriceTriple `json:"data"`
	Timestamp string             `json:"timestamp"`
	Source    string             `json:"source"`
}

// Load retrieves the last cached quote. Any read or parse error is a
// cache miss, never an error for the caller.
func (c *fileQuoteCache) Load() *domain.CachedQuote {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var file cacheFile
	if err := json.Unmarshal(raw, &file); err != nil {
		log.Debug().Err(err).Str("path", c.path).Msg("unreadable quote cache, treating as miss")
		return nil
	}

	fetchedAt, err := time.Parse(time.RFC3339, file.Timestamp)
	if err != nil {
		log.Debug().Err(err).Str("path", c.path).Msg("bad cache timestamp, treating as miss")
		return nil
	}

	return &domain.CachedQuote{
		Triple:    file.Data,
		FetchedAt: fetchedAt,
		Source:    file.Source,
	}
}

// Store persists a live triple, superseding any previous quote. Write
// errors are logged and swallowed.
func (c *fileQuoteCache) Store(triple domain.PriceTriple, source string) {
	file := cacheFile{
		Data:      triple,
		Timestamp: c.now().Format(time.RFC3339),
		Source:    source,
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("cache write failed (ignored)")
		return
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("path", c.path).Msg("cache write failed (ignored)")
			return
		}
	}

	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("cache write failed (ignored)")
	}
}
