package reports

import (
	"testing"
	"time"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ref = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func order(at time.Time, status domain.OrderStatus) domain.Order {
	return domain.Order{ID: uuid.Must(uuid.NewV7()), OrderDate: at, Status: status}
}

func TestMonthlyBuckets_EmptyIsZeroSeeded(t *testing.T) {
	buckets := MonthlyBuckets(nil, 6, ref)
	require.Len(t, buckets, 6)
	for _, b := range buckets {
		assert.Zero(t, b.Orders)
		assert.Zero(t, b.Delivered)
		assert.Zero(t, b.Pending)
		assert.Zero(t, b.Cancelled)
	}
	assert.Equal(t, "2025-10", buckets[0].Month)
	assert.Equal(t, "Oct 2025", buckets[0].Label)
	assert.Equal(t, "2026-03", buckets[5].Month)
}

func TestMonthlyBuckets_Counts(t *testing.T) {
	orders := []domain.Order{
		order(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), domain.OrderDelivered),
		order(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC), domain.OrderInTransit),
		order(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), domain.OrderProcessing),
		order(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), domain.OrderCancelled),
		order(time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC), domain.OrderPending),
		order(time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), domain.OrderDelivered),
		order(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), domain.OrderDelivered),
	}
	buckets := MonthlyBuckets(orders, 6, ref)
	require.Len(t, buckets, 6)

	byKey := map[string]Bucket{}
	total := 0
	for _, b := range buckets {
		byKey[b.Month] = b
		total += b.Orders
	}
	assert.Equal(t, 5, total, "orders outside the window are ignored")
	assert.Equal(t, Bucket{Month: "2026-03", Label: "Mar 2026", Orders: 2, Delivered: 1, Pending: 1}, byKey["2026-03"])
	assert.Equal(t, Bucket{Month: "2026-02", Label: "Feb 2026", Orders: 2, Pending: 1, Cancelled: 1}, byKey["2026-02"])
	assert.Equal(t, 1, byKey["2025-12"].Pending)
	assert.Zero(t, byKey["2026-01"].Orders)
}

func TestMonthlyBuckets_AcrossYearEnd(t *testing.T) {
	buckets := MonthlyBuckets(nil, 3, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	keys := []string{buckets[0].Month, buckets[1].Month, buckets[2].Month}
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01"}, keys)
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-02")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2026, Month: time.February}, m)
	assert.Equal(t, "2026-02", m.Key())

	for _, bad := range []string{"", "2026-13", "2026-00", "26-02", "2026/02", "2026-2"} {
		_, err := ParseMonth(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, bad)
	}
}

func TestReportRows(t *testing.T) {
	a := order(time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), domain.OrderPending)
	b := order(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), domain.OrderDelivered)
	c := order(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), domain.OrderPending)
	d := order(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), domain.OrderCancelled)
	in := []domain.Order{a, c, d, b}

	feb := Month{Year: 2026, Month: time.February}
	rows := ReportRows(in, &feb)
	require.Len(t, rows, 3)
	assert.Equal(t, []uuid.UUID{b.ID, d.ID, a.ID}, []uuid.UUID{rows[0].ID, rows[1].ID, rows[2].ID})

	all := ReportRows(in, nil)
	assert.Len(t, all, 4)
	assert.Equal(t, c.ID, all[3].ID)
	assert.Equal(t, a.ID, in[0].ID, "input untouched")

	none := ReportRows(in, &Month{Year: 2020, Month: time.January})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
