// Package domain contains the core data structures and domain logic for the application.
package domain

// Report holds the aggregated review KPIs for a repository over a query window.
// It is the core domain entity of this application and is built once per run.
type Report struct {
	NumberOfPRs int      `json:"number_prs"`
	Comments    int      `json:"comments"`
	Additions   int      `json:"additions"`
	Deletions   int      `json:"deletions"`
	Summary     *Summary `json:"summary,omitempty"`
}

// Summary holds per pull request distribution figures.
type Summary struct {
	Comments     Distribution `json:"comments"`
	ChangedLines Distribution `json:"changed_lines"`
}

// Distribution describes a sample of per pull request values.
type Distribution struct {
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Percentile90 float64 `json:"p90"`
	Max          float64 `json:"max"`
}
