package reports

import (
	"sort"
	"time"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/validation"
)

const (
	DefaultMonthsBack = 6
	MaxMonthsBack     = 24
)

// Bucket counts a user's orders placed in one calendar month.
type Bucket struct {
	Month     string `json:"month"`
	Label     string `json:"label"`
	Orders    int    `json:"orders"`
	Delivered int    `json:"delivered"`
	Pending   int    `json:"pending"`
	Cancelled int    `json:"cancelled"`
}

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	if !validation.IsValidMonth(s) {
		return Month{}, invalidMonth(s)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, invalidMonth(s)
	}
	return MonthOf(t), nil
}

func invalidMonth(s string) error {
	return apperrors.InvalidInput("Invalid month", map[string]interface{}{"month": s})
}

// MonthOf returns the UTC month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Key() string {
	return m.Start().Format("2006-01")
}

func (m Month) Label() string {
	return m.Start().Format("Jan 2006")
}

// Contains reports whether t falls in m.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// AddMonths shifts m by n calendar months.
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// MonthlyBuckets returns monthsBack buckets, oldest first, ending with the month of
// reference. Months without orders are present with zero counts and orders outside
// the window are ignored.
func MonthlyBuckets(orders []domain.Order, monthsBack int, reference time.Time) []Bucket {
	if monthsBack < 1 {
		return []Bucket{}
	}
	first := MonthOf(reference).AddMonths(-(monthsBack - 1))
	buckets := make([]Bucket, monthsBack)
	index := make(map[Month]int, monthsBack)
	for i := range buckets {
		m := first.AddMonths(i)
		buckets[i] = Bucket{Month: m.Key(), Label: m.Label()}
		index[m] = i
	}

	for _, o := range orders {
		i, ok := index[MonthOf(o.OrderDate)]
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Orders++
		switch {
		case o.Status == domain.OrderDelivered:
			b.Delivered++
		case o.Status == domain.OrderCancelled:
			b.Cancelled++
		case o.Status.IsOpen():
			b.Pending++
		}
	}
	return buckets
}

// ReportRows returns the orders placed in month, or all orders when month is nil,
// sorted by order date then id. The input slice is not modified.
func ReportRows(orders []domain.Order, month *Month) []domain.Order {
	rows := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if month != nil && !month.Contains(o.OrderDate) {
			continue
		}
		rows = append(rows, o)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].OrderDate.Equal(rows[j].OrderDate) {
			return rows[i].OrderDate.Before(rows[j].OrderDate)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows
}
