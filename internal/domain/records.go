package domain

import "strings"

// RateLimitMessage is the message fragment GitHub returns once the primary rate limit is exhausted.
const RateLimitMessage = "API rate limit exceeded for user ID"

// SearchResultItem is a single hit from the issue search endpoint.
type SearchResultItem struct {
	Number int
}

// SearchPage is the result of one search page request.
// Total is the search's total_count as reported by GitHub, 0 when absent.
type SearchPage struct {
	Items []SearchResultItem
	Total int
}

// DetailRecord is the per pull request detail used for aggregation.
// Numeric fields are nil when the response did not carry them, which is the case for
// error-shaped responses; those carry Message instead.
type DetailRecord struct {
	Number         int
	ReviewComments *int
	Additions      *int
	Deletions      *int
	Message        string
}

// IsRateLimited reports whether the record is GitHub's primary rate limit error.
func (r DetailRecord) IsRateLimited() bool {
	return strings.Contains(r.Message, RateLimitMessage)
}
