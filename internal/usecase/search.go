// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-kpi/internal/domain"
	"github.com/naka-gawa/github-kpi/internal/gateway"
)

// MaxSearchPages is the number of pages requested for every search. GitHub serves
// at most 1000 search results, so anything past page 10 is unreachable.
const MaxSearchPages = 10

// SearchFetcher discovers the merged pull requests of a query window.
type SearchFetcher struct {
	fetcher gateway.Fetcher
	logger  zerolog.Logger
}

// NewSearchFetcher creates a new SearchFetcher instance.
func NewSearchFetcher(fetcher gateway.Fetcher, logger zerolog.Logger) *SearchFetcher {
	return &SearchFetcher{
		fetcher: fetcher,
		logger:  logger,
	}
}

// FetchAll requests all MaxSearchPages pages concurrently and returns their items
// in the order the pages completed. It returns only once every page request has
// finished; a failed page does not stop the others.
func (s *SearchFetcher) FetchAll(ctx context.Context, window domain.QueryWindow) ([]domain.SearchResultItem, error) {
	s.logger.Debug().Str("query", window.SearchQuery()).Msg("searching merged pull requests")

	pages := make(chan domain.SearchPage, MaxSearchPages)
	var eg errgroup.Group
	for page := 1; page <= MaxSearchPages; page++ {
		eg.Go(func() error {
			result, err := s.fetcher.SearchMergedPRs(ctx, window, page)
			if err != nil {
				return err
			}
			s.logger.Debug().Int("page", page).Int("items", len(result.Items)).Msg("search page fetched")
			pages <- result
			return nil
		})
	}
	err := eg.Wait()
	close(pages)
	if err != nil {
		return nil, err
	}

	var items []domain.SearchResultItem
	total := 0
	for page := range pages {
		items = append(items, page.Items...)
		total = max(total, page.Total)
	}

	if limit := MaxSearchPages * gateway.SearchPageSize; total > limit {
		s.logger.Warn().Int("total", total).Int("reachable", limit).Msg("search matched more pull requests than GitHub returns; the rest are not counted")
	}
	return items, nil
}
