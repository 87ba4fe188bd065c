package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// CommissionEntry is one append-only ledger row recording commission owed to
// an artist for a paid order item. Rows are only ever created by payment
// verification; an external payout batch flips Status to paid.
type CommissionEntry struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ArtistID    uuid.UUID              `gorm:"column:artist_id;type:uuid;not null;index"`
	OrderID     uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	OrderItemID uuid.UUID              `gorm:"column:order_item_id;type:uuid;not null;uniqueIndex"`
	AmountCents int                    `gorm:"column:amount_cents;not null"`
	Rate        decimal.Decimal        `gorm:"column:rate;type:numeric(5,4);not null"`
	Status      enums.CommissionStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
