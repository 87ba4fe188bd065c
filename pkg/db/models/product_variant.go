package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is the catalog row a cart line resolves against: a garment
// in a specific size and color, optionally carrying an artist design.
type ProductVariant struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Size       string     `gorm:"column:size;not null"`
	Color      string     `gorm:"column:color;not null"`
	PriceCents int        `gorm:"column:price_cents;not null"`
	DesignID   *uuid.UUID `gorm:"column:design_id;type:uuid"`
	ArtistID   *uuid.UUID `gorm:"column:artist_id;type:uuid"`
	Active     bool       `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
