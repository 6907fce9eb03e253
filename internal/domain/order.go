package domain

import (
	"time"

	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderInTransit  OrderStatus = "In Transit"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// allowedTransitions lists every legal status change. Orders only move forward,
// Processing may be skipped, and Delivered is reachable only from In Transit.
// Delivered and Cancelled are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderInTransit, OrderCancelled},
	OrderProcessing: {OrderInTransit, OrderCancelled},
	OrderInTransit:  {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ParseOrderStatus returns the status named by s or an InvalidInput error.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", apperrors.InvalidInput("Invalid order status", map[string]interface{}{
			"status": s,
		})
	}
	return st, nil
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// IsOpen is true for Pending, Processing and In Transit.
func (s OrderStatus) IsOpen() bool {
	return s == OrderPending || s == OrderProcessing || s == OrderInTransit
}

// ValidateTransition returns an InvalidTransition error unless from -> to is a legal edge.
func ValidateTransition(from, to OrderStatus) error {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperrors.InvalidTransition(string(from), string(to))
}

// Order is a recipient's claim on a listing. ListingID is a weak reference; the
// food fields are a snapshot taken at request time.
type Order struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID      uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	FoodName       string          `gorm:"column:food_name;not null" json:"foodName"`
	FoodImg        string          `gorm:"column:food_img" json:"foodImg"`
	Location       string          `gorm:"column:location" json:"location"`
	OwnerEmail     string          `gorm:"column:owner_email;not null;index" json:"ownerEmail"`
	RequesterEmail string          `gorm:"column:requester_email;not null;index" json:"requesterEmail"`
	RequesterName  string          `gorm:"column:requester_name" json:"requesterName"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null;default:0" json:"unitPrice"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:decimal(14,2);not null;default:0" json:"totalPrice"`
	Address        string          `gorm:"column:address" json:"address,omitempty"`
	DeliveryDate   *time.Time      `gorm:"column:delivery_date" json:"deliveryDate,omitempty"`
	Note           string          `gorm:"column:note;type:text" json:"note,omitempty"`
	OrderDate      time.Time       `gorm:"column:order_date;not null" json:"orderDate"`
	Status         OrderStatus     `gorm:"column:status;type:varchar(20);not null;default:'Pending'" json:"status"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		o.ID = id
	}
	return nil
}
