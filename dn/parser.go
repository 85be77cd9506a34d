package dn

import (
	"io"
	"log/slog"

	"github.com/netresearch/simple-ldif-go/internal/cache"
)

// DefaultCacheSize is the number of parsed names a Parser keeps by default.
const DefaultCacheSize = 1024

// Parser parses DNs and remembers recent results. It is an explicit context
// object: callers that parse the same names repeatedly (such as the base
// DNs of a bulk LDIF import) create one Parser and pass it around, while
// Parse itself stays free of shared state. A Parser is safe for concurrent
// use.
type Parser struct {
	cache  *cache.GenericLRUCache[DN]
	logger *slog.Logger
	size   int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithCacheSize sets the number of parsed names kept. Zero or less disables
// caching.
func WithCacheSize(n int) ParserOption {
	return func(p *Parser) {
		p.size = n
	}
}

// WithLogger sets the logger used for cache statistics.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		size:   DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cache = cache.NewGenericLRUCache[DN](&cache.CacheConfig{MaxSize: p.size}, p.logger)
	return p
}

// Parse is like the package level Parse but answers repeated inputs from
// the cache. Failed parses are not cached.
func (p *Parser) Parse(s string) (DN, error) {
	return p.cache.GetOrLoad(s, func() (DN, error) {
		return Parse(s)
	})
}

// ParserStats summarises cache behaviour.
type ParserStats struct {
	Hits     int64
	Misses   int64
	Entries  int
	HitRatio float64
}

// Stats returns the cache statistics and logs them at debug level.
func (p *Parser) Stats() ParserStats {
	p.cache.LogStats()
	s := p.cache.Stats()
	return ParserStats{
		Hits:     s.Hits,
		Misses:   s.Misses,
		Entries:  s.TotalEntries,
		HitRatio: s.HitRatio,
	}
}

// Reset drops every cached name.
func (p *Parser) Reset() {
	p.cache.Clear()
}
