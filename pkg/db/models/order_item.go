package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one cart line at assembly time, including the per-unit
// commission split. unit_price_cents == base_cost_cents + artist_commission_cents
// + platform_profit_cents always holds.
type OrderItem struct {
	ID                    uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID               uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID             uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Size                  string     `gorm:"column:size;not null"`
	Color                 string     `gorm:"column:color;not null"`
	DesignID              *uuid.UUID `gorm:"column:design_id;type:uuid"`
	ArtistID              *uuid.UUID `gorm:"column:artist_id;type:uuid"`
	Quantity              int        `gorm:"column:quantity;not null"`
	UnitPriceCents        int        `gorm:"column:unit_price_cents;not null"`
	BaseCostCents         int        `gorm:"column:base_cost_cents;not null"`
	ArtistCommissionCents int        `gorm:"column:artist_commission_cents;not null"`
	PlatformProfitCents   int        `gorm:"column:platform_profit_cents;not null"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
}
