package reports

import (
	"context"
	"strings"
	"time"

	"bitebuddy-backend/internal/application/orders"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/clock"

	"gorm.io/gorm"
)

// Service builds charts, exports and dashboard numbers from committed data.
type Service struct {
	DB     *gorm.DB
	Orders *orders.Service
	Clock  clock.Clock
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return clock.Real{}.Now()
	}
	return s.Clock.Now()
}

// Chart buckets the user's orders by month. monthsBack 0 means DefaultMonthsBack.
func (s *Service) Chart(ctx context.Context, email, role string, monthsBack int) ([]Bucket, error) {
	if monthsBack == 0 {
		monthsBack = DefaultMonthsBack
	}
	if monthsBack < 1 || monthsBack > MaxMonthsBack {
		return nil, apperrors.InvalidInput("Invalid months", map[string]interface{}{
			"months": "must be between 1 and 24",
		})
	}
	all, err := s.Orders.ListAll(ctx, email, role)
	if err != nil {
		return nil, err
	}
	return MonthlyBuckets(all, monthsBack, s.now()), nil
}

// Report returns the user's orders for export, optionally limited to one "YYYY-MM" month.
func (s *Service) Report(ctx context.Context, email, role, month string) ([]domain.Order, error) {
	var filter *Month
	if month = strings.TrimSpace(month); month != "" {
		m, err := ParseMonth(month)
		if err != nil {
			return nil, err
		}
		filter = &m
	}
	all, err := s.Orders.ListAll(ctx, email, role)
	if err != nil {
		return nil, err
	}
	return ReportRows(all, filter), nil
}

// DashboardStats are the headline numbers of a user's dashboard.
type DashboardStats struct {
	Added     int64 `json:"added"`
	Available int64 `json:"available"`
	Expired   int64 `json:"expired"`
	Requested int64 `json:"requested"`
	Received  int64 `json:"received"`
}

// Dashboard counts the user's listings by resolved status and their orders on both sides.
func (s *Service) Dashboard(ctx context.Context, email string) (*DashboardStats, error) {
	var owned []domain.Listing
	if err := s.DB.WithContext(ctx).
		Select("id", "status", "ex_date").
		Where("LOWER(owner_email) = LOWER(?)", email).
		Find(&owned).Error; err != nil {
		return nil, err
	}

	stats := &DashboardStats{Added: int64(len(owned))}
	now := s.now()
	for i := range owned {
		switch owned[i].Resolve(now) {
		case domain.ListingAvailable:
			stats.Available++
		case domain.ListingExpired:
			stats.Expired++
		}
	}

	placed, received, err := s.Orders.Counts(ctx, email)
	if err != nil {
		return nil, err
	}
	stats.Requested = placed
	stats.Received = received
	return stats, nil
}
