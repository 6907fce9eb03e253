package domain

import (
	"time"

	"bitebuddy-backend/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListingStatus is the stored status of a listing. Expired is never stored.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "Available"
	ListingRequested ListingStatus = "Requested"
	ListingExpired   ListingStatus = "Expired"
)

// Listing is a donor's food offer.
type Listing struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FoodName      string          `gorm:"column:food_name;not null" json:"foodName"`
	FoodImg       string          `gorm:"column:food_img" json:"foodImg"`
	Location      string          `gorm:"column:location;not null" json:"location"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	ExDate        time.Time       `gorm:"column:ex_date;not null" json:"exDate"`
	Description   string          `gorm:"column:description;type:text;not null" json:"description"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	Status        ListingStatus   `gorm:"column:status;type:varchar(20);not null;default:'Available'" json:"status"`
	OwnerEmail    string          `gorm:"column:owner_email;not null;index" json:"ownerEmail"`
	OwnerName     string          `gorm:"column:owner_name" json:"ownerName"`
	OwnerImageURL string          `gorm:"column:owner_image_url" json:"ownerImageUrl"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updatedAt"`

	// DisplayStatus is filled on read by WithDisplayStatus.
	DisplayStatus ListingStatus `gorm:"-" json:"displayStatus"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate assigns a time-ordered id so id order follows creation order.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}

// ResolveStatus derives the display status: Expired once now reaches exDate,
// otherwise the stored status.
func ResolveStatus(stored ListingStatus, exDate, now time.Time) ListingStatus {
	if clock.Expired(now, exDate) {
		return ListingExpired
	}
	return stored
}

// Resolve returns the listing's display status at now.
func (l *Listing) Resolve(now time.Time) ListingStatus {
	return ResolveStatus(l.Status, l.ExDate, now)
}

// WithDisplayStatus sets DisplayStatus on each listing.
func WithDisplayStatus(listings []Listing, now time.Time) []Listing {
	for i := range listings {
		listings[i].DisplayStatus = listings[i].Resolve(now)
	}
	return listings
}
