package domain

import "github.com/cockroachdb/errors"

// RateLimitDocsURL documents GitHub's rate limiting rules.
const RateLimitDocsURL = "https://docs.github.com/en/rest#rate-limiting"

var (
	// ErrConfiguration marks missing credentials, missing arguments and unparseable dates.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyResult is returned when the search phase yields no pull requests.
	ErrEmptyResult = errors.New("can not fetch pull requests, please recheck arguments")

	// ErrRateLimited is returned when the run hit GitHub's primary rate limit.
	ErrRateLimited = errors.New("you have reached the GitHub API rate limit")

	// ErrIncompleteRecord is returned when a detail record lacks a numeric field.
	ErrIncompleteRecord = errors.New("incomplete pull request detail")
)

// NewRateLimitError wraps ErrRateLimited with a hint pointing at the rate limit documentation.
func NewRateLimitError() error {
	return errors.WithHintf(errors.WithStack(ErrRateLimited), "See more here: %s", RateLimitDocsURL)
}
