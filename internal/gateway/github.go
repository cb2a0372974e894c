// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v80/github"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

// SearchPageSize is the largest page the search endpoint serves.
const SearchPageSize = 100

// Fetcher defines the GitHub calls the KPI pipeline is built on.
// Each call issues exactly one request.
type Fetcher interface {
	SearchMergedPRs(ctx context.Context, window domain.QueryWindow, page int) (domain.SearchPage, error)
	FetchPRDetail(ctx context.Context, repo string, number int) (domain.DetailRecord, error)
}

// Compile-time interface satisfaction check.
var _ Fetcher = (*GitHubGateway)(nil)

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        zerolog.Logger
}

// Options tunes the HTTP transport.
type Options struct {
	// SecondaryLimitWait is the longest single sleep allowed when GitHub reports a
	// secondary rate limit. Zero disables waiting and the error response is returned as is.
	// A positive value makes the transport sleep and retry, so the error is never seen.
	SecondaryLimitWait time.Duration
}

// mergedCountQuery asks GitHub for the size of a search without paging through it.
type mergedCountQuery struct {
	Search struct {
		IssueCount int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, opts Options, logger zerolog.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithLimitDetectedCallback(func(cb *github_ratelimit.CallbackContext) {
			event := logger.Warn()
			if cb.Request != nil {
				event = event.Str("url", cb.Request.URL.String())
			}
			if cb.SleepUntil != nil {
				event = event.Time("until", *cb.SleepUntil)
			}
			event.Msg("secondary rate limit detected")
		}),
		github_ratelimit.WithSingleSleepLimit(opts.SecondaryLimitWait, func(cb *github_ratelimit.CallbackContext) {
			logger.Debug().Dur("max_wait", opts.SecondaryLimitWait).Msg("not waiting for secondary rate limit")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rate limit waiter")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// SearchMergedPRs fetches one page of merged pull requests in the window.
// API error responses yield an empty page; transport and decoding failures are returned.
func (g *GitHubGateway) SearchMergedPRs(ctx context.Context, window domain.QueryWindow, page int) (domain.SearchPage, error) {
	query := window.SearchQuery()
	opts := &github.SearchOptions{ListOptions: github.ListOptions{Page: page, PerPage: SearchPageSize}}

	result, resp, err := g.restClient.Search.Issues(alwaysSend(ctx), query, opts)
	if err != nil {
		if message, ok := apiErrorMessage(err); ok {
			g.logger.Warn().Int("page", page).Str("message", message).Msg("search page returned an API error, treating it as empty")
			return domain.SearchPage{}, nil
		}
		return domain.SearchPage{}, errors.Wrapf(err, "failed to search merged pull requests (page %d)", page)
	}
	g.logRateLimit(resp, "search", page)

	items := make([]domain.SearchResultItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		items = append(items, domain.SearchResultItem{Number: issue.GetNumber()})
	}
	return domain.SearchPage{Items: items, Total: result.GetTotal()}, nil
}

// FetchPRDetail fetches the detail of a single pull request.
// API error responses are returned as a record carrying only the error message.
func (g *GitHubGateway) FetchPRDetail(ctx context.Context, repo string, number int) (domain.DetailRecord, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return domain.DetailRecord{}, err
	}

	pr, resp, err := g.restClient.PullRequests.Get(alwaysSend(ctx), owner, name, number)
	if err != nil {
		if message, ok := apiErrorMessage(err); ok {
			g.logger.Debug().Int("number", number).Str("message", message).Msg("pull request detail returned an API error")
			return domain.DetailRecord{Number: number, Message: message}, nil
		}
		return domain.DetailRecord{}, errors.Wrapf(err, "failed to fetch pull request %s#%d", repo, number)
	}
	g.logRateLimit(resp, "pull", number)

	return domain.DetailRecord{
		Number:         number,
		ReviewComments: pr.ReviewComments,
		Additions:      pr.Additions,
		Deletions:      pr.Deletions,
	}, nil
}

// CountMergedPRs returns the number of merged pull requests in the window.
// Unlike the REST search it is not capped at 1000 results.
func (g *GitHubGateway) CountMergedPRs(ctx context.Context, window domain.QueryWindow) (int, error) {
	variables := map[string]interface{}{"query": githubv4.String(window.SearchQuery())}
	var q mergedCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, errors.Wrap(err, "failed to execute GraphQL query for merged count")
	}
	g.logger.Debug().Str("query", window.SearchQuery()).Int("count", q.Search.IssueCount).Msg("counted merged pull requests")
	return q.Search.IssueCount, nil
}

// alwaysSend disables go-github's pre-emptive primary and secondary rate limit
// checks, so a rate limited request still reaches GitHub and yields its error message.
func alwaysSend(ctx context.Context) context.Context {
	return context.WithValue(ctx, github.BypassRateLimitCheck, true)
}

// apiErrorMessage extracts the message of an error response sent by GitHub.
func apiErrorMessage(err error) (string, bool) {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.Message, true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Message, true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Message, true
	}
	return "", false
}

func (g *GitHubGateway) logRateLimit(resp *github.Response, endpoint string, id int) {
	if resp == nil {
		return
	}
	g.logger.Debug().
		Str("endpoint", endpoint).
		Int("id", id).
		Int("rate_remaining", resp.Rate.Remaining).
		Int("rate_limit", resp.Rate.Limit).
		Msg("github api call")
}

// splitRepo splits an "owner/name" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Newf("invalid repo name %q: expected owner/name", fullName)
	}
	return parts[0], parts[1], nil
}
