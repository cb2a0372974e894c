package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

// Aggregator reduces detail records into a Report.
type Aggregator struct {
	logger      zerolog.Logger
	withSummary bool
}

// NewAggregator creates a new Aggregator instance. When withSummary is set the
// report also carries per pull request distribution figures.
func NewAggregator(logger zerolog.Logger, withSummary bool) *Aggregator {
	return &Aggregator{
		logger:      logger,
		withSummary: withSummary,
	}
}

// Aggregate sums review comments, additions and deletions over records.
//
// Only the last record is inspected for GitHub's rate limit message; if it matches,
// no report is produced. A rate limited record anywhere else is not recognised as
// such and fails the aggregation as an incomplete record instead.
func (a *Aggregator) Aggregate(records []domain.DetailRecord, numberOfPRs int) (*domain.Report, error) {
	if len(records) == 0 {
		return nil, errors.New("no pull request details to aggregate")
	}
	if records[len(records)-1].IsRateLimited() {
		return nil, domain.NewRateLimitError()
	}

	if limited := countRateLimited(records); limited > 0 {
		a.logger.Warn().Int("records", limited).Msg("rate limited responses found before the last record")
	}

	var comments, additions, deletions int
	for _, record := range records {
		if err := checkComplete(record); err != nil {
			return nil, err
		}
		comments += *record.ReviewComments
		additions += *record.Additions
		deletions += *record.Deletions
	}

	var summary *domain.Summary
	if a.withSummary {
		var err error
		if summary, err = summarize(records); err != nil {
			return nil, err
		}
	}

	a.logger.Debug().Int("records", len(records)).Msg("aggregation complete")
	return &domain.Report{
		NumberOfPRs: numberOfPRs,
		Comments:    comments,
		Additions:   additions,
		Deletions:   deletions,
		Summary:     summary,
	}, nil
}

func countRateLimited(records []domain.DetailRecord) int {
	n := 0
	for _, record := range records {
		if record.IsRateLimited() {
			n++
		}
	}
	return n
}

func checkComplete(record domain.DetailRecord) error {
	var missing string
	switch {
	case record.ReviewComments == nil:
		missing = "review_comments"
	case record.Additions == nil:
		missing = "additions"
	case record.Deletions == nil:
		missing = "deletions"
	default:
		return nil
	}
	err := errors.Newf("pull request #%d has no %s", record.Number, missing)
	if record.Message != "" {
		err = errors.WithDetailf(err, "GitHub responded: %s", record.Message)
	}
	return errors.Mark(err, domain.ErrIncompleteRecord)
}

// summarize expects every record to be complete.
func summarize(records []domain.DetailRecord) (*domain.Summary, error) {
	comments := make(stats.Float64Data, 0, len(records))
	changed := make(stats.Float64Data, 0, len(records))
	for _, record := range records {
		comments = append(comments, float64(*record.ReviewComments))
		changed = append(changed, float64(*record.Additions+*record.Deletions))
	}

	commentDist, err := distribution(comments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize review comments")
	}
	changedDist, err := distribution(changed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize changed lines")
	}
	return &domain.Summary{Comments: commentDist, ChangedLines: changedDist}, nil
}

func distribution(data stats.Float64Data) (domain.Distribution, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return domain.Distribution{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return domain.Distribution{}, err
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return domain.Distribution{}, err
	}
	maximum, err := stats.Max(data)
	if err != nil {
		return domain.Distribution{}, err
	}
	return domain.Distribution{Mean: mean, Median: median, Percentile90: p90, Max: maximum}, nil
}
