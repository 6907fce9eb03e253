package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventCreated            = "CREATED"
	EventUpdated            = "UPDATED"
	EventDeleted            = "DELETED"
	EventRequested          = "REQUESTED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// ListingEvent is an audit row written in the same transaction as the change it records.
// OwnerEmail is the listing owner so the trail stays readable after the listing is deleted.
type ListingEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID  uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	OrderID    *uuid.UUID     `gorm:"column:order_id;type:uuid" json:"order_id,omitempty"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	ActorEmail string         `gorm:"column:actor_email;not null" json:"actor_email"`
	OwnerEmail string         `gorm:"column:owner_email;not null;index" json:"owner_email"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		le.EventID = id
	}
	return nil
}

// NewListingEvent builds an event row with data marshalled as JSON.
func NewListingEvent(eventType string, listing *Listing, actorEmail string, data map[string]interface{}) (*ListingEvent, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &ListingEvent{
		ListingID:  listing.ID,
		EventType:  eventType,
		EventData:  datatypes.JSON(b),
		ActorEmail: actorEmail,
		OwnerEmail: listing.OwnerEmail,
	}, nil
}

// NewOrderEvent records order activity against the order's listing.
func NewOrderEvent(eventType string, order *Order, actorEmail string, data map[string]interface{}) (*ListingEvent, error) {
	ev, err := NewListingEvent(eventType, &Listing{ID: order.ListingID, OwnerEmail: order.OwnerEmail}, actorEmail, data)
	if err != nil {
		return nil, err
	}
	orderID := order.ID
	ev.OrderID = &orderID
	return ev, nil
}
