package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitebuddy-backend/internal/application/uploads"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/clock"
	"bitebuddy-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB      *gorm.DB
	Clock   clock.Clock
	Uploads *uploads.Service
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return clock.Real{}.Now()
	}
	return s.Clock.Now()
}

// ListingInput is a new listing as submitted by its donor.
type ListingInput struct {
	FoodName    string
	FoodImg     string
	Location    string
	Quantity    int
	ExDate      time.Time
	Description string
	Price       decimal.Decimal
}

func (in ListingInput) fields() validation.ListingFields {
	return validation.ListingFields{
		FoodName:    &in.FoodName,
		FoodImg:     &in.FoodImg,
		Location:    &in.Location,
		Quantity:    &in.Quantity,
		ExDate:      &in.ExDate,
		Description: &in.Description,
		Price:       &in.Price,
	}
}

// ImageFile is an image submitted together with a new listing.
type ImageFile struct {
	Name string
	Data []byte
}

func invalidListing(errs map[string]interface{}) error {
	return apperrors.InvalidInput("Invalid listing data", errs)
}

func (s *Service) Create(ctx context.Context, owner domain.Identity, in ListingInput) (*domain.Listing, error) {
	if owner.Email == "" {
		return nil, apperrors.InvalidInput("Owner email is required", nil)
	}
	if errs := validation.ValidateListing(in.fields(), true); errs != nil {
		return nil, invalidListing(errs)
	}

	listing := &domain.Listing{
		FoodName:      strings.TrimSpace(in.FoodName),
		FoodImg:       strings.TrimSpace(in.FoodImg),
		Location:      strings.TrimSpace(in.Location),
		Quantity:      in.Quantity,
		ExDate:        in.ExDate.UTC(),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Status:        domain.ListingAvailable,
		OwnerEmail:    owner.Email,
		OwnerName:     owner.Name,
		OwnerImageURL: owner.PhotoURL,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return fmt.Errorf("Failed to create listing: %w", err)
		}
		ev, err := domain.NewListingEvent(domain.EventCreated, listing, owner.Email, map[string]interface{}{
			"food_name": listing.FoodName,
			"quantity":  listing.Quantity,
			"ex_date":   listing.ExDate,
			"price":     listing.Price.String(),
		})
		if err != nil {
			return err
		}
		if err := tx.Create(ev).Error; err != nil {
			return fmt.Errorf("Failed to create listing event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	listing.DisplayStatus = listing.Resolve(s.now())
	return listing, nil
}

// CreateWithImage uploads the image and then creates the listing. The listing is
// validated before the upload, and nothing is persisted when the upload fails.
func (s *Service) CreateWithImage(ctx context.Context, owner domain.Identity, in ListingInput, img ImageFile) (*domain.Listing, error) {
	if owner.Email == "" {
		return nil, apperrors.InvalidInput("Owner email is required", nil)
	}
	if errs := validation.ValidateListing(in.fields(), true); errs != nil {
		return nil, invalidListing(errs)
	}
	if s.Uploads == nil {
		return nil, apperrors.Configuration("Image upload is not configured")
	}
	res, err := s.Uploads.UploadFoodImage(ctx, img.Name, img.Data)
	if err != nil {
		return nil, err
	}
	in.FoodImg = res.URL
	return s.Create(ctx, owner, in)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Listing not found")
		}
		return nil, err
	}
	listing.DisplayStatus = listing.Resolve(s.now())
	return &listing, nil
}

// ListingPatch carries a partial update. The identity fields are accepted only so
// that attempts to change them can be rejected.
type ListingPatch struct {
	FoodName    *string
	FoodImg     *string
	Location    *string
	Quantity    *int
	ExDate      *time.Time
	Description *string
	Price       *decimal.Decimal

	ID            *string
	OwnerEmail    *string
	OwnerName     *string
	OwnerImageURL *string
	Status        *string
}

func (p ListingPatch) empty() bool {
	return p.FoodName == nil && p.FoodImg == nil && p.Location == nil && p.Quantity == nil &&
		p.ExDate == nil && p.Description == nil && p.Price == nil
}

// immutableChange returns the name of the first identity field the patch tries to change.
func (p ListingPatch) immutableChange(l *domain.Listing) string {
	switch {
	case p.ID != nil && *p.ID != l.ID.String():
		return "id"
	case p.OwnerEmail != nil && !domain.SameEmail(*p.OwnerEmail, l.OwnerEmail):
		return "ownerEmail"
	case p.OwnerName != nil && *p.OwnerName != l.OwnerName:
		return "ownerName"
	case p.OwnerImageURL != nil && *p.OwnerImageURL != l.OwnerImageURL:
		return "ownerImageUrl"
	case p.Status != nil && domain.ListingStatus(*p.Status) != l.Status:
		return "status"
	}
	return ""
}

func (s *Service) Update(ctx context.Context, actor domain.Identity, id uuid.UUID, p ListingPatch) (*domain.Listing, error) {
	if errs := validation.ValidateListing(validation.ListingFields{
		FoodName:    p.FoodName,
		FoodImg:     p.FoodImg,
		Location:    p.Location,
		Quantity:    p.Quantity,
		ExDate:      p.ExDate,
		Description: p.Description,
		Price:       p.Price,
	}, false); errs != nil {
		return nil, invalidListing(errs)
	}

	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Listing not found")
			}
			return err
		}
		if !domain.SameEmail(listing.OwnerEmail, actor.Email) {
			return apperrors.Forbidden("Only the listing owner can update it")
		}
		if field := p.immutableChange(&listing); field != "" {
			e := apperrors.Forbidden("Listing field cannot be changed")
			e.Details = map[string]interface{}{"field": field}
			return e
		}
		if p.empty() {
			return apperrors.InvalidInput("No valid changes provided", nil)
		}

		updates := map[string]interface{}{}
		changed := map[string]interface{}{}
		if p.FoodName != nil && strings.TrimSpace(*p.FoodName) != listing.FoodName {
			updates["food_name"] = strings.TrimSpace(*p.FoodName)
			changed["food_name"] = updates["food_name"]
		}
		if p.FoodImg != nil && strings.TrimSpace(*p.FoodImg) != listing.FoodImg {
			updates["food_img"] = strings.TrimSpace(*p.FoodImg)
			changed["food_img"] = updates["food_img"]
		}
		if p.Location != nil && strings.TrimSpace(*p.Location) != listing.Location {
			updates["location"] = strings.TrimSpace(*p.Location)
			changed["location"] = updates["location"]
		}
		if p.Quantity != nil && *p.Quantity != listing.Quantity {
			updates["quantity"] = *p.Quantity
			changed["quantity"] = *p.Quantity
		}
		if p.ExDate != nil && !p.ExDate.Equal(listing.ExDate) {
			updates["ex_date"] = p.ExDate.UTC()
			changed["ex_date"] = p.ExDate.UTC()
		}
		if p.Description != nil && strings.TrimSpace(*p.Description) != listing.Description {
			updates["description"] = strings.TrimSpace(*p.Description)
			changed["description"] = updates["description"]
		}
		if p.Price != nil && !p.Price.Equal(listing.Price) {
			updates["price"] = *p.Price
			changed["price"] = p.Price.String()
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&listing).Updates(updates).Error; err != nil {
			return err
		}
		ev, err := domain.NewListingEvent(domain.EventUpdated, &listing, actor.Email, changed)
		if err != nil {
			return err
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&listing).Error
	})
	if err != nil {
		return nil, err
	}
	listing.DisplayStatus = listing.Resolve(s.now())
	return &listing, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := tx.Where("id = ?", id).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Listing not found")
			}
			return err
		}
		if !domain.SameEmail(listing.OwnerEmail, actor.Email) {
			return apperrors.Forbidden("Only the listing owner can delete it")
		}
		res := tx.Where("id = ?", id).Delete(&domain.Listing{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Listing not found")
		}
		ev, err := domain.NewListingEvent(domain.EventDeleted, &listing, actor.Email, map[string]interface{}{
			"food_name": listing.FoodName,
			"status":    listing.Status,
		})
		if err != nil {
			return err
		}
		return tx.Create(ev).Error
	})
}
