package listingevents

import (
	"context"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetOwnerEvents returns the audit trail of every listing owned by ownerEmail, oldest
// first. A non-nil listingID narrows it to one listing.
func (s *Service) GetOwnerEvents(ctx context.Context, ownerEmail string, listingID *uuid.UUID) ([]domain.ListingEvent, error) {
	if ownerEmail == "" {
		return nil, apperrors.InvalidInput("Owner email is required", nil)
	}

	q := s.DB.WithContext(ctx).Where("LOWER(owner_email) = LOWER(?)", ownerEmail)
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	}
	events := []domain.ListingEvent{}
	if err := q.Order("created_at ASC, event_id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
