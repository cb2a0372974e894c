package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/naka-gawa/github-kpi/internal/domain"
	"github.com/naka-gawa/github-kpi/internal/gateway"
)

// Pipeline is the use case for computing review KPIs.
// It orchestrates searching, fetching details and aggregating.
type Pipeline struct {
	search     *SearchFetcher
	details    *DetailFetcher
	aggregator *Aggregator
	progress   io.Writer
	logger     zerolog.Logger
}

// NewPipeline creates a new Pipeline. Progress lines are written to progress.
func NewPipeline(fetcher gateway.Fetcher, aggregator *Aggregator, progress io.Writer, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		search:     NewSearchFetcher(fetcher, logger),
		details:    NewDetailFetcher(fetcher, logger),
		aggregator: aggregator,
		progress:   progress,
		logger:     logger,
	}
}

// Run performs the main business logic for one query window.
// It returns domain.ErrEmptyResult when nothing was found and a rate limit error
// when GitHub refused the detail requests; no report is produced in either case.
func (p *Pipeline) Run(ctx context.Context, window domain.QueryWindow) (*domain.Report, error) {
	fmt.Fprintln(p.progress, "Get list pull requests")
	items, err := p.search.FetchAll(ctx, window)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.WithStack(domain.ErrEmptyResult)
	}

	fmt.Fprintf(p.progress, "Calculating data: %d pull requests\n", len(items))
	records, err := p.details.FetchAll(ctx, window.Repository, items)
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Int("records", len(records)).Msg("all pull request details fetched")

	return p.aggregator.Aggregate(records, len(items))
}
