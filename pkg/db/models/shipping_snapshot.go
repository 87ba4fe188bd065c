package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingSnapshot freezes the delivery details submitted at checkout.
// Everything is immutable after assembly except the two tracking fields,
// which only admin operations may set.
type ShippingSnapshot struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Name              string    `gorm:"column:name;not null"`
	Address           string    `gorm:"column:address;not null"`
	City              string    `gorm:"column:city;not null"`
	Region            string    `gorm:"column:region;not null"`
	PostalCode        string    `gorm:"column:postal_code;not null"`
	Phone             string    `gorm:"column:phone;not null"`
	Email             string    `gorm:"column:email;not null"`
	CarrierTrackingID *string   `gorm:"column:carrier_tracking_id"`
	TrackingLink      *string   `gorm:"column:tracking_link"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
