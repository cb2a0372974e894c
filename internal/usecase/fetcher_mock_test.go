package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-kpi/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) SearchMergedPRs(ctx context.Context, window domain.QueryWindow, page int) (domain.SearchPage, error) {
	args := m.Called(ctx, window, page)
	return args.Get(0).(domain.SearchPage), args.Error(1)
}

func (m *mockFetcher) FetchPRDetail(ctx context.Context, repo string, number int) (domain.DetailRecord, error) {
	args := m.Called(ctx, repo, number)
	return args.Get(0).(domain.DetailRecord), args.Error(1)
}

// expectSearchPages registers the ten page expectations; pages missing from byPage are empty.
func (m *mockFetcher) expectSearchPages(window domain.QueryWindow, byPage map[int]domain.SearchPage) {
	for page := 1; page <= MaxSearchPages; page++ {
		m.On("SearchMergedPRs", mock.Anything, window, page).Return(byPage[page], nil).Once()
	}
}

func testWindow() domain.QueryWindow {
	return domain.QueryWindow{
		Repository: "owner/name",
		From:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func intPtr(v int) *int { return &v }

func detail(number, comments, additions, deletions int) domain.DetailRecord {
	return domain.DetailRecord{
		Number:         number,
		ReviewComments: intPtr(comments),
		Additions:      intPtr(additions),
		Deletions:      intPtr(deletions),
	}
}

func rateLimited(number int) domain.DetailRecord {
	return domain.DetailRecord{Number: number, Message: "API rate limit exceeded for user ID 1."}
}
