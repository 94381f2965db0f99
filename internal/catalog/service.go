package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultSearchTimeout = 15 * time.Second

// Service fronts the registered providers: url resolution picks the first
// provider whose TestURL matches, search fans out and aggregates.
type Service struct {
	adapters []Adapter
	cache    *SearchCache
	timeout  time.Duration
	logger   *slog.Logger
}

func NewService(logger *slog.Logger, cache *SearchCache, adapters ...Adapter) *Service {
	return &Service{
		adapters: adapters,
		cache:    cache,
		timeout:  defaultSearchTimeout,
		logger:   logger,
	}
}

func (s *Service) Resolve(ctx context.Context, rawURL string) (Track, error) {
	for _, a := range s.adapters {
		if a.TestURL(rawURL) {
			track, err := a.Resolve(ctx, rawURL)
			if err != nil {
				return Track{}, fmt.Errorf("%s: %w", a.Source(), err)
			}

			return track, nil
		}
	}

	return Track{}, ErrInvalidURL
}

// Search queries every provider, or only the named one when source is set.
// Provider failures degrade to an empty result set for that provider; they
// never fail the aggregate.
func (s *Service) Search(ctx context.Context, query, source string) ([]SearchResult, error) {
	matched := false
	results := []SearchResult{}
	for _, a := range s.adapters {
		if source != "" && a.Source() != source {
			continue
		}
		matched = true

		results = append(results, s.searchOne(ctx, a, query)...)
	}

	if source != "" && !matched {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidURL, source)
	}

	return results, nil
}

func (s *Service) searchOne(ctx context.Context, a Adapter, query string) []SearchResult {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, a.Source(), query); ok {
			return cached
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	select {
	case page := <-a.Search(ctx, query):
		if page.Err != nil {
			s.logger.WarnContext(ctx, "provider search failed", "source", a.Source(), "error", page.Err)
			return nil
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, a.Source(), query, page.Results); err != nil {
				s.logger.WarnContext(ctx, "failed to cache search results", "source", a.Source(), "error", err)
			}
		}

		return page.Results
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "provider search timed out", "source", a.Source())
		return nil
	}
}

func (s *Service) Like(ctx context.Context, source, itemID, accessToken string) error {
	for _, a := range s.adapters {
		if a.Source() == source {
			return a.Like(ctx, itemID, accessToken)
		}
	}

	return fmt.Errorf("%w: unknown source %q", ErrInvalidURL, source)
}
