package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitebuddy-backend/internal/application/emails"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/clock"
	"bitebuddy-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Clock    clock.Clock
	Notifier emails.Notifier
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return clock.Real{}.Now()
	}
	return s.Clock.Now()
}

// OrderDetails are the optional fulfilment fields of a request. A nil Quantity
// claims the whole listing.
type OrderDetails struct {
	Quantity     *int
	Address      string
	DeliveryDate string
	Note         string
}

type validatedDetails struct {
	quantity     int
	deliveryDate *time.Time
}

func validateDetails(d OrderDetails, listing *domain.Listing) (*validatedDetails, error) {
	errs := map[string]interface{}{}
	out := &validatedDetails{quantity: listing.Quantity}
	if d.Quantity != nil {
		switch {
		case *d.Quantity < 1:
			errs["quantity"] = "must be at least 1"
		case *d.Quantity > listing.Quantity:
			errs["quantity"] = "must not exceed the listed quantity"
		default:
			out.quantity = *d.Quantity
		}
	}
	if strings.TrimSpace(d.DeliveryDate) != "" {
		t, err := validation.ParseDate(d.DeliveryDate)
		if err != nil {
			errs["deliveryDate"] = "must be a valid date"
		} else {
			out.deliveryDate = &t
		}
	}
	if len(errs) > 0 {
		return nil, apperrors.InvalidInput("Invalid order details", errs)
	}
	return out, nil
}

// CreateOrder turns a request against an Available listing into a Pending order and
// marks the listing Requested. The status flip is a compare-and-swap, so of two
// concurrent requests for one listing only one can succeed.
func (s *Service) CreateOrder(ctx context.Context, requester domain.Identity, listingID uuid.UUID, d OrderDetails) (*domain.Order, error) {
	if requester.Email == "" {
		return nil, apperrors.InvalidInput("Requester email is required", nil)
	}
	now := s.now()

	var order *domain.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := tx.Where("id = ?", listingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Listing not found")
			}
			return err
		}
		if st := listing.Resolve(now); st != domain.ListingAvailable {
			return apperrors.NotEligible("Listing is not available for request", map[string]interface{}{
				"status": st,
			})
		}
		if domain.SameEmail(listing.OwnerEmail, requester.Email) {
			return apperrors.NotEligible("You cannot request your own listing", nil)
		}
		vd, err := validateDetails(d, &listing)
		if err != nil {
			return err
		}

		res := tx.Model(&domain.Listing{}).
			Where("id = ? AND status = ?", listing.ID, domain.ListingAvailable).
			Update("status", domain.ListingRequested)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotEligible("Listing is not available for request", map[string]interface{}{
				"status": domain.ListingRequested,
			})
		}

		order = &domain.Order{
			ListingID:      listing.ID,
			FoodName:       listing.FoodName,
			FoodImg:        listing.FoodImg,
			Location:       listing.Location,
			OwnerEmail:     listing.OwnerEmail,
			RequesterEmail: requester.Email,
			RequesterName:  requester.Name,
			Quantity:       vd.quantity,
			UnitPrice:      listing.Price,
			TotalPrice:     listing.Price.Mul(decimal.NewFromInt(int64(vd.quantity))),
			Address:        strings.TrimSpace(d.Address),
			DeliveryDate:   vd.deliveryDate,
			Note:           strings.TrimSpace(d.Note),
			OrderDate:      now,
			Status:         domain.OrderPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		ev, err := domain.NewOrderEvent(domain.EventRequested, order, requester.Email, map[string]interface{}{
			"quantity":    order.Quantity,
			"total_price": order.TotalPrice.String(),
		})
		if err != nil {
			return err
		}
		return tx.Create(ev).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.OrderRequested(ctx, order); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("order_id", order.ID.String()).Msg("order requested notification failed")
		}
	}
	return order, nil
}

// GetOrder returns an order visible to the caller as its donor or requester.
func (s *Service) GetOrder(ctx context.Context, actor domain.Identity, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, err
	}
	if !domain.SameEmail(order.OwnerEmail, actor.Email) && !domain.SameEmail(order.RequesterEmail, actor.Email) {
		return nil, apperrors.Forbidden("Order belongs to another user")
	}
	return &order, nil
}

// UpdateStatus moves an order along the status machine. Only the listing's donor may
// do so. The write is conditioned on the status that was validated, so a concurrent
// edit makes this one fail instead of applying a transition from a stale state.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Identity, id uuid.UUID, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	var from domain.OrderStatus
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Order not found")
			}
			return err
		}
		if !domain.SameEmail(order.OwnerEmail, actor.Email) {
			return apperrors.Forbidden("Only the listing owner can change the order status")
		}
		from = order.Status
		if err := domain.ValidateTransition(from, next); err != nil {
			return err
		}

		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(map[string]interface{}{"status": next, "updated_at": s.now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidTransition(string(from), string(next))
		}

		ev, err := domain.NewOrderEvent(domain.EventOrderStatusChanged, &order, actor.Email, map[string]interface{}{
			"from": from,
			"to":   next,
		})
		if err != nil {
			return err
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", order.ID).First(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.OrderStatusChanged(ctx, &order, from); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("order_id", order.ID.String()).Msg("order status notification failed")
		}
	}
	return &order, nil
}
