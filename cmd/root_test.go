package cmd

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

func TestFailureLine(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "rate limit carries the docs pointer on the same line",
			err:      domain.NewRateLimitError(),
			expected: "Error: you have reached the GitHub API rate limit. See more here: https://docs.github.com/en/rest#rate-limiting",
		},
		{
			name:     "error without hints",
			err:      domain.ErrEmptyResult,
			expected: "Error: can not fetch pull requests, please recheck arguments",
		},
		{
			name:     "multi-line hint is folded",
			err:      errors.WithHint(errors.New("GITHUB_TOKEN is missing"), "export GITHUB_TOKEN\nor pass it in .env"),
			expected: "Error: GITHUB_TOKEN is missing. export GITHUB_TOKEN or pass it in .env",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := failureLine(tc.err)

			assert.Equal(t, tc.expected, line)
			assert.NotContains(t, line, "\n")
		})
	}
}

func TestStatsCmd_SecondaryLimitWaitFlag(t *testing.T) {
	flag := statsCmd.Flags().Lookup("secondary-limit-wait")

	require.NotNil(t, flag)
	assert.Equal(t, "0s", flag.DefValue)
	assert.Contains(t, flag.Usage, "0 reports the limit as is")
	assert.Contains(t, flag.Usage, "sleeps and retries")
}
