package usecase

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name           string
		records        []domain.DetailRecord
		numberOfPRs    int
		expectedResult *domain.Report
		expectedErr    error
	}{
		{
			name:        "happy path - sums every field",
			records:     []domain.DetailRecord{detail(1, 2, 10, 1), detail(2, 0, 5, 0), detail(3, 1, 0, 3)},
			numberOfPRs: 3,
			expectedResult: &domain.Report{
				NumberOfPRs: 3,
				Comments:    3,
				Additions:   15,
				Deletions:   4,
			},
		},
		{
			name:           "rate limit - last record carries the message",
			records:        []domain.DetailRecord{detail(1, 2, 10, 1), detail(2, 0, 5, 0), rateLimited(3)},
			numberOfPRs:    3,
			expectedResult: nil,
			expectedErr:    domain.ErrRateLimited,
		},
		{
			name:           "rate limit not last - fails as an incomplete record",
			records:        []domain.DetailRecord{rateLimited(1), detail(2, 0, 5, 0)},
			numberOfPRs:    2,
			expectedResult: nil,
			expectedErr:    domain.ErrIncompleteRecord,
		},
		{
			name:           "error-shaped record - fails as an incomplete record",
			records:        []domain.DetailRecord{{Number: 4, Message: "Not Found"}, detail(2, 0, 5, 0)},
			numberOfPRs:    2,
			expectedResult: nil,
			expectedErr:    domain.ErrIncompleteRecord,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			aggregator := NewAggregator(zerolog.Nop(), false)

			report, err := aggregator.Aggregate(tc.records, tc.numberOfPRs)

			if tc.expectedErr != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErr), "unexpected error: %v", err)
				assert.Nil(t, report)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedResult, report)
			}
		})
	}
}

func TestAggregator_Aggregate_EmptyRecords(t *testing.T) {
	report, err := NewAggregator(zerolog.Nop(), false).Aggregate(nil, 0)

	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestAggregator_Aggregate_OrderIndependent(t *testing.T) {
	records := []domain.DetailRecord{detail(1, 2, 10, 1), detail(2, 0, 5, 0), detail(3, 1, 0, 3), detail(4, 7, 120, 33)}
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	aggregator := NewAggregator(zerolog.Nop(), false)

	var expected *domain.Report
	for _, order := range permutations {
		permuted := make([]domain.DetailRecord, 0, len(order))
		for _, i := range order {
			permuted = append(permuted, records[i])
		}

		report, err := aggregator.Aggregate(permuted, len(permuted))
		require.NoError(t, err)
		if expected == nil {
			expected = report
			continue
		}
		assert.Equal(t, expected, report)
	}
	assert.Equal(t, &domain.Report{NumberOfPRs: 4, Comments: 10, Additions: 135, Deletions: 37}, expected)
}

func TestAggregator_Aggregate_RateLimitCarriesHint(t *testing.T) {
	_, err := NewAggregator(zerolog.Nop(), false).Aggregate([]domain.DetailRecord{rateLimited(1)}, 1)

	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), domain.RateLimitDocsURL)
}

func TestAggregator_Aggregate_WithSummary(t *testing.T) {
	records := []domain.DetailRecord{detail(1, 2, 10, 1), detail(2, 0, 5, 0), detail(3, 1, 0, 3)}

	report, err := NewAggregator(zerolog.Nop(), true).Aggregate(records, 3)

	require.NoError(t, err)
	require.NotNil(t, report.Summary)

	comments := report.Summary.Comments
	assert.InDelta(t, 1.0, comments.Mean, 1e-9)
	assert.InDelta(t, 1.0, comments.Median, 1e-9)
	assert.InDelta(t, 2.0, comments.Max, 1e-9)
	assert.GreaterOrEqual(t, comments.Percentile90, comments.Median)
	assert.LessOrEqual(t, comments.Percentile90, comments.Max)

	changed := report.Summary.ChangedLines
	assert.InDelta(t, 19.0/3.0, changed.Mean, 1e-9)
	assert.InDelta(t, 5.0, changed.Median, 1e-9)
	assert.InDelta(t, 11.0, changed.Max, 1e-9)
}
