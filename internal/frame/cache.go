package frame

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// CachingDecoder keeps recently decoded frames in an LRU cache keyed by path.
// Every Decode still stats the file, so a deleted file is reported as
// ErrMissingFile and a modified one is decoded again.
type CachingDecoder struct {
	next  Decoder
	cache *lru.Cache[string, *Frame]
	log   zerolog.Logger
}

// NewCachingDecoder wraps next with a cache of size frames.
func NewCachingDecoder(next Decoder, size int, log zerolog.Logger) *CachingDecoder {
	cache, err := lru.New[string, *Frame](size)
	if err != nil {
		log.Error().Err(err).Int("size", size).Msg("Failed to create frame cache, using 8")
		cache, _ = lru.New[string, *Frame](8)
	}
	return &CachingDecoder{next: next, cache: cache, log: log}
}

// Decode returns the cached frame for path if the file is unchanged, and
// decodes it through the wrapped decoder otherwise.
func (d *CachingDecoder) Decode(path string) (*Frame, error) {
	info, err := statImage(path)
	if err != nil {
		d.cache.Remove(path)
		return nil, err
	}

	if f, ok := d.cache.Get(path); ok {
		if f.ModTime.Equal(info.ModTime()) && f.Size == info.Size() {
			d.log.Debug().Str("path", path).Int("cached", d.cache.Len()).Msg("Frame cache hit")
			return f, nil
		}
		d.cache.Remove(path)
	}

	f, err := d.next.Decode(path)
	if err != nil {
		return nil, err
	}
	d.cache.Add(path, f)
	d.log.Debug().Str("path", path).Int("cached", d.cache.Len()).Msg("Frame cache miss")
	return f, nil
}

// Len returns the number of cached frames.
func (d *CachingDecoder) Len() int {
	return d.cache.Len()
}

// Purge drops every cached frame.
func (d *CachingDecoder) Purge() {
	d.cache.Purge()
}
