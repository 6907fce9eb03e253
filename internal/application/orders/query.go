package orders

import (
	"context"
	"strings"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/infrastructure/database"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Roles select which side of an order the user is on.
const (
	RoleAny       = ""
	RoleDonor     = "donor"
	RoleRequester = "requester"
)

// participantScope limits orders to those where email is the donor, the requester, or either.
func participantScope(email, role string) (func(*gorm.DB) *gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAny:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(owner_email) = LOWER(?) OR LOWER(requester_email) = LOWER(?)", email, email)
		}, nil
	case RoleDonor:
		return func(db *gorm.DB) *gorm.DB { return db.Where("LOWER(owner_email) = LOWER(?)", email) }, nil
	case RoleRequester:
		return func(db *gorm.DB) *gorm.DB { return db.Where("LOWER(requester_email) = LOWER(?)", email) }, nil
	default:
		return nil, apperrors.InvalidInput("Invalid role", map[string]interface{}{"role": role})
	}
}

// List pages a user's orders, newest first.
func (s *Service) List(ctx context.Context, email, role string, page, limit int) ([]domain.Order, pagination.Meta, error) {
	p, err := pagination.Normalize(page, limit, pagination.DefaultOrderLimit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	scope, err := participantScope(email, role)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var total int64
	items := []domain.Order{}
	err = database.ReadSnapshot(ctx, s.DB, func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Order{}).Scopes(scope).Count(&total).Error; err != nil {
			return err
		}
		if p.PastEnd(total) {
			return nil
		}
		return tx.Scopes(scope).Order("order_date DESC, id ASC").Offset(p.Offset()).Limit(p.Limit).Find(&items).Error
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(p, total), nil
}

// ListAll returns every order of the user, unpaginated, for reports and charts.
func (s *Service) ListAll(ctx context.Context, email, role string) ([]domain.Order, error) {
	scope, err := participantScope(email, role)
	if err != nil {
		return nil, err
	}
	items := []domain.Order{}
	if err := s.DB.WithContext(ctx).Scopes(scope).Order("order_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Counts returns how many orders email placed and received.
func (s *Service) Counts(ctx context.Context, email string) (placed, received int64, err error) {
	err = database.ReadSnapshot(ctx, s.DB, func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Order{}).Where("LOWER(requester_email) = LOWER(?)", email).Count(&placed).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Order{}).Where("LOWER(owner_email) = LOWER(?)", email).Count(&received).Error
	})
	return placed, received, err
}
