package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-kpi/internal/domain"
	"github.com/naka-gawa/github-kpi/internal/gateway"
)

// DetailBatchSize bounds the number of detail requests in flight at once.
const DetailBatchSize = 100

// DetailFetcher fetches the detail record of every discovered pull request.
type DetailFetcher struct {
	fetcher gateway.Fetcher
	logger  zerolog.Logger
}

// NewDetailFetcher creates a new DetailFetcher instance.
func NewDetailFetcher(fetcher gateway.Fetcher, logger zerolog.Logger) *DetailFetcher {
	return &DetailFetcher{
		fetcher: fetcher,
		logger:  logger,
	}
}

// FetchAll splits items into consecutive batches of DetailBatchSize. Batches run one
// after another; the requests of a batch run concurrently and the next batch starts
// only when all of them have finished. Records are returned in completion order.
func (d *DetailFetcher) FetchAll(ctx context.Context, repo string, items []domain.SearchResultItem) ([]domain.DetailRecord, error) {
	records := make([]domain.DetailRecord, 0, len(items))

	for start := 0; start < len(items); start += DetailBatchSize {
		batch := items[start:min(start+DetailBatchSize, len(items))]
		completed := make(chan domain.DetailRecord, len(batch))

		var eg errgroup.Group
		for _, item := range batch {
			eg.Go(func() error {
				record, err := d.fetcher.FetchPRDetail(ctx, repo, item.Number)
				if err != nil {
					return err
				}
				completed <- record
				return nil
			})
		}
		err := eg.Wait()
		close(completed)
		if err != nil {
			return nil, err
		}

		for record := range completed {
			records = append(records, record)
		}
		d.logger.Debug().Int("batch_start", start).Int("batch_size", len(batch)).Int("fetched", len(records)).Msg("detail batch fetched")
	}
	return records, nil
}
