package listings

import (
	"context"
	"strings"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/infrastructure/database"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ListingQuery is the public browse request.
type ListingQuery struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchScope matches term case-insensitively anywhere in food_name or location.
func searchScope(term string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where(`LOWER(food_name) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
}

// orderClause returns the ORDER BY for a sort request. Every ordering ends in id
// so pages are reproducible; with time-ordered ids the default is creation order.
func orderClause(sortBy, sortOrder string) (string, error) {
	sortBy = strings.TrimSpace(sortBy)
	sortOrder = strings.ToLower(strings.TrimSpace(sortOrder))
	if sortBy == "" {
		return "id ASC", nil
	}
	if sortBy != "quantity" {
		return "", apperrors.InvalidInput("Invalid sort parameters", map[string]interface{}{"sortBy": sortBy})
	}
	switch sortOrder {
	case "", "asc":
		return "quantity ASC, id ASC", nil
	case "desc":
		return "quantity DESC, id ASC", nil
	default:
		return "", apperrors.InvalidInput("Invalid sort parameters", map[string]interface{}{"sortOrder": sortOrder})
	}
}

// Query returns one page of listings plus metadata computed from the same snapshot.
func (s *Service) Query(ctx context.Context, q ListingQuery) ([]domain.Listing, pagination.Meta, error) {
	p, err := pagination.Normalize(q.Page, q.Limit, pagination.DefaultListingLimit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	order, err := orderClause(q.SortBy, q.SortOrder)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return s.page(ctx, p, order, searchScope(q.Search))
}

// ListByOwner pages the caller's own listings in creation order.
func (s *Service) ListByOwner(ctx context.Context, ownerEmail string, page, limit int) ([]domain.Listing, pagination.Meta, error) {
	p, err := pagination.Normalize(page, limit, pagination.DefaultListingLimit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return s.page(ctx, p, "id ASC", func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(owner_email) = LOWER(?)", ownerEmail)
	})
}

func (s *Service) page(ctx context.Context, p pagination.Page, order string, scope func(*gorm.DB) *gorm.DB) ([]domain.Listing, pagination.Meta, error) {
	var total int64
	items := []domain.Listing{}
	err := database.ReadSnapshot(ctx, s.DB, func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Listing{}).Scopes(scope).Count(&total).Error; err != nil {
			return err
		}
		if p.PastEnd(total) {
			return nil
		}
		return tx.Scopes(scope).Order(order).Offset(p.Offset()).Limit(p.Limit).Find(&items).Error
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return domain.WithDisplayStatus(items, s.now()), pagination.NewMeta(p, total), nil
}
