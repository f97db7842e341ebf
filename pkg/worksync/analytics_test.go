package worksync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRange(t *testing.T) {
	r, err := ParseTimeRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeMonth, r)

	r, err = ParseTimeRange("quarter")
	require.NoError(t, err)
	assert.Equal(t, 90, r.Days())

	_, err = ParseTimeRange("decade")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	requests := []Request{
		{ID: 1, Status: StatusPending, RequestType: RequestTypeSupply, ItemName: "Paper", CreatedAt: "2025-03-30T10:00:00"},
		{ID: 2, Status: StatusApproved, RequestType: RequestTypeSupply, ItemName: "Paper", Cost: 20, CreatedAt: "2025-03-20T10:00:00", UpdatedAt: "2025-03-22T11:00:00"},
		{ID: 3, Status: StatusDelivered, RequestType: RequestTypeSupply, ItemName: "Toner", Cost: 60.5, CreatedAt: "2025-03-10T10:00:00Z", UpdatedAt: "2025-03-15T09:00:00Z"},
		{ID: 4, Status: StatusDenied, RequestType: RequestTypeMaintenance, CreatedAt: "2025-03-25T10:00:00", UpdatedAt: "2025-03-25T12:00:00"},
		{ID: 5, Status: StatusOrdered, RequestType: RequestTypeSuggestion, Cost: 99, CreatedAt: "2025-03-26T10:00:00", UpdatedAt: "2025-03-27T10:00:00"},
		{ID: 6, Status: StatusDelivered, RequestType: RequestTypeSupply, ItemName: "", Cost: 5, CreatedAt: "2025-03-28T10:00:00"},
		{ID: 7, Status: StatusDelivered, RequestType: RequestTypeSupply, ItemName: "Paper", Cost: 1000, CreatedAt: "2024-12-01T10:00:00"},
		{ID: 8, Status: StatusPending, CreatedAt: "not a date"},
	}
	suggestions := []Suggestion{
		{ID: 1, CreatedAt: "2025-03-29"},
		{ID: 2, CreatedAt: "2024-01-01"},
	}

	a := Summarize(requests, suggestions, RangeMonth, now)

	assert.Equal(t, 6, a.TotalRequests)
	assert.Equal(t, 1, a.PendingRequests)
	assert.Equal(t, 3, a.CompletedRequests)
	assert.Equal(t, 50, a.CompletionRate)
	// responded: #2 (2 days), #3 (4 days), #4 (0 days), #5 (1 day)
	assert.Equal(t, 1.8, a.AvgResponseDays)
	assert.Equal(t, 4, a.SupplyRequests)
	assert.Equal(t, 1, a.MaintenanceRequests)
	assert.Equal(t, 1, a.OtherRequests)
	assert.Equal(t, []ItemCount{{Name: "Paper", Count: 2}, {Name: "Toner", Count: 1}, {Name: "Unknown", Count: 1}}, a.TopItems)
	assert.Equal(t, 85.5, a.TotalSpent)
	assert.Equal(t, 1, a.StatusCounts[StatusPending])
	assert.Equal(t, 1, a.StatusCounts[StatusApproved])
	assert.Equal(t, 1, a.StatusCounts[StatusDenied])
	assert.Equal(t, 2, a.StatusCounts[StatusDelivered])
	assert.Equal(t, 1, a.StatusCounts[StatusOrdered])
	assert.Contains(t, a.StatusCounts, StatusCompleted)
	assert.Equal(t, 1, a.TotalSuggestions)
}

func TestSummarize_Empty(t *testing.T) {
	a := Summarize(nil, nil, RangeWeek, time.Now())

	assert.Zero(t, a.TotalRequests)
	assert.Zero(t, a.CompletionRate)
	assert.Zero(t, a.AvgResponseDays)
	assert.NotNil(t, a.TopItems)
	assert.Len(t, a.StatusCounts, len(Statuses))
}

func TestSummarize_TopItemsCappedAtFive(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	var requests []Request
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "f"} {
		requests = append(requests, Request{ID: int64(i), RequestType: RequestTypeSupply, ItemName: name, Status: StatusPending, CreatedAt: "2025-03-30"})
	}

	a := Summarize(requests, nil, RangeWeek, now)

	require.Len(t, a.TopItems, 5)
	assert.Equal(t, ItemCount{Name: "f", Count: 2}, a.TopItems[0])
	assert.Equal(t, "a", a.TopItems[1].Name)
}
