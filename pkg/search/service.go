// Package search runs catalog searches with caching, appending
// pagination and debounced query input.
package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bookmap/internal/cache"
	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/constants"
	"github.com/agentstation/bookmap/pkg/logging"
	"github.com/agentstation/bookmap/pkg/openlibrary"
)

// Backend performs a single remote search.
type Backend interface {
	Search(ctx context.Context, q openlibrary.Query) (*books.SearchResponse, error)
}

var _ Backend = (*openlibrary.Client)(nil)
var _ Backend = (*Service)(nil)

// Service wraps a Backend with a response cache and failure substitution.
type Service struct {
	backend Backend
	cache   *cache.Cache[books.SearchResponse]
	ttl     time.Duration
	logger  *zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCacheTTL sets how long responses are reused. Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a search service over backend.
func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		ttl:     constants.SearchCacheTTL,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		s.cache = cache.New[books.SearchResponse](s.ttl, constants.CacheCleanupInterval)
	}
	return s
}

func empty(q openlibrary.Query) *books.SearchResponse {
	return &books.SearchResponse{Start: q.Offset, Docs: []books.Book{}}
}

// Search runs q. The response is never nil: when the backend fails the
// error is logged and returned together with a zero-result response.
func (s *Service) Search(ctx context.Context, q openlibrary.Query) (*books.SearchResponse, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return empty(q), err
	}

	key := q.Values().Encode()
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.logger.Debug().Str("query", q.Text).Int("offset", q.Offset).Msg("Search cache hit")
			return clone(hit), nil
		}
	}

	resp, err := s.backend.Search(ctx, q)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", q.Text).Int("offset", q.Offset).Msg("Search failed")
		return empty(q), err
	}
	if resp.Docs == nil {
		resp.Docs = []books.Book{}
	}
	if s.cache != nil {
		s.cache.Set(key, *clone(*resp))
	}
	return resp, nil
}

// Invalidate drops every cached response.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func clone(r books.SearchResponse) *books.SearchResponse {
	r.Docs = append([]books.Book{}, r.Docs...)
	return &r
}
