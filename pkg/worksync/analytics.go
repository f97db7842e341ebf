package worksync

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TimeRange selects the look-back window of the analytics dashboard.
type TimeRange string

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

const topItemsLimit = 5

// ParseTimeRange defaults to month for an empty value.
func ParseTimeRange(raw string) (TimeRange, error) {
	switch r := TimeRange(raw); r {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return r, nil
	}
	return "", fmt.Errorf("invalid time range %q", raw)
}

func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeQuarter:
		return 90
	case RangeYear:
		return 365
	default:
		return 30
	}
}

type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Analytics struct {
	Range               TimeRange      `json:"range"`
	Since               time.Time      `json:"since"`
	TotalRequests       int            `json:"totalRequests"`
	PendingRequests     int            `json:"pendingRequests"`
	CompletedRequests   int            `json:"completedRequests"`
	CompletionRate      int            `json:"completionRate"`
	AvgResponseDays     float64        `json:"avgResponseDays"`
	SupplyRequests      int            `json:"supplyRequests"`
	MaintenanceRequests int            `json:"maintenanceRequests"`
	OtherRequests       int            `json:"otherRequests"`
	TopItems            []ItemCount    `json:"topItems"`
	TotalSpent          float64        `json:"totalSpent"`
	StatusCounts        map[Status]int `json:"statusCounts"`
	TotalSuggestions    int            `json:"totalSuggestions"`
}

// ParseTimestamp accepts RFC 3339 and the zone-less ISO forms the backend emits.
func ParseTimestamp(raw string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func createdAfter(raw string, since time.Time) bool {
	t, ok := ParseTimestamp(raw)
	return ok && t.After(since)
}

// Summarize computes the dashboard figures for records created within rng before now.
func Summarize(requests []Request, suggestions []Suggestion, rng TimeRange, now time.Time) Analytics {
	since := now.AddDate(0, 0, -rng.Days())
	a := Analytics{
		Range:        rng,
		Since:        since,
		TopItems:     []ItemCount{},
		StatusCounts: make(map[Status]int, len(Statuses)),
	}
	for _, s := range Statuses {
		a.StatusCounts[s] = 0
	}

	var (
		spent        = decimal.Zero
		responseDays int
		responded    int
		itemIndex    = map[string]int{}
	)
	for _, r := range requests {
		if !createdAfter(r.CreatedAt, since) {
			continue
		}
		a.TotalRequests++
		if r.Status.Valid() {
			a.StatusCounts[r.Status]++
		}
		switch r.Status {
		case StatusPending:
			a.PendingRequests++
		case StatusDelivered, StatusApproved:
			a.CompletedRequests++
			spent = spent.Add(decimal.NewFromFloat(r.Cost))
		}
		if r.Status != StatusPending {
			created, okC := ParseTimestamp(r.CreatedAt)
			updated, okU := ParseTimestamp(r.UpdatedAt)
			if okC && okU {
				responseDays += int(updated.Sub(created).Hours() / 24)
				responded++
			}
		}
		switch r.RequestType {
		case RequestTypeSupply:
			a.SupplyRequests++
			name := r.ItemName
			if name == "" {
				name = "Unknown"
			}
			if i, ok := itemIndex[name]; ok {
				a.TopItems[i].Count++
			} else {
				itemIndex[name] = len(a.TopItems)
				a.TopItems = append(a.TopItems, ItemCount{Name: name, Count: 1})
			}
		case RequestTypeMaintenance:
			a.MaintenanceRequests++
		}
	}
	a.OtherRequests = a.TotalRequests - a.SupplyRequests - a.MaintenanceRequests

	if a.TotalRequests > 0 {
		a.CompletionRate = int(math.Round(float64(a.CompletedRequests) / float64(a.TotalRequests) * 100))
	}
	if responded > 0 {
		a.AvgResponseDays = math.Round(float64(responseDays)/float64(responded)*10) / 10
	}
	a.TotalSpent = spent.InexactFloat64()

	sort.SliceStable(a.TopItems, func(i, j int) bool {
		return a.TopItems[i].Count > a.TopItems[j].Count
	})
	if len(a.TopItems) > topItemsLimit {
		a.TopItems = a.TopItems[:topItemsLimit]
	}

	for _, s := range suggestions {
		if createdAfter(s.CreatedAt, since) {
			a.TotalSuggestions++
		}
	}
	return a
}
