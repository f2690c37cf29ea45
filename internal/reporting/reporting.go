// Package reporting derives read-only views from a query snapshot. Both
// projections are pure: they never touch the store and hold no state.
package reporting

import (
	"sort"
	"time"

	"github.com/spec-kit/query-service/internal/domain"
)

// DateCount is one point of a submission series.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// StatusCounts tallies the snapshot by status. Only statuses present in the
// snapshot appear in the result.
func StatusCounts(queries []domain.Query) map[domain.QueryStatus]int {
	counts := make(map[domain.QueryStatus]int)
	for _, q := range queries {
		counts[q.Status]++
	}
	return counts
}

// SubmissionSeries groups the snapshot by submitted date, ascending. Dates
// with no submissions are omitted; the series is sparse, not a calendar.
func SubmissionSeries(queries []domain.Query) []DateCount {
	byDate := make(map[time.Time]int)
	for _, q := range queries {
		y, m, d := q.SubmittedOn.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		byDate[day]++
	}

	series := make([]DateCount, 0, len(byDate))
	for day, count := range byDate {
		series = append(series, DateCount{Date: day, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
