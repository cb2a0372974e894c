package domain

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted date format, both on input and in search queries.
const DateLayout = "2006-01-02"

// QueryWindow identifies the repository and merge date range to report on.
// From may be after To; the search endpoint simply returns nothing in that case.
type QueryWindow struct {
	Repository string
	From       time.Time
	To         time.Time
}

// MergedRange renders the window as a search qualifier value, e.g. "2024-01-01..2024-01-31".
func (w QueryWindow) MergedRange() string {
	return fmt.Sprintf("%s..%s", w.From.Format(DateLayout), w.To.Format(DateLayout))
}

// SearchQuery builds the issue search query for merged pull requests in the window.
func (w QueryWindow) SearchQuery() string {
	return fmt.Sprintf("repo:%s type:pr is:merged merged:%s", w.Repository, w.MergedRange())
}
