package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// CartItem is one line in an actor's cart. At most one row exists per
// (actor, product, size, color); repeated adds increment Quantity.
type CartItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ActorKind      enums.ActorKind `gorm:"column:actor_kind;not null;uniqueIndex:idx_cart_actor_variant"`
	ActorID        string          `gorm:"column:actor_id;not null;uniqueIndex:idx_cart_actor_variant"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_actor_variant"`
	Size           string          `gorm:"column:size;not null;uniqueIndex:idx_cart_actor_variant"`
	Color          string          `gorm:"column:color;not null;uniqueIndex:idx_cart_actor_variant"`
	DesignID       *uuid.UUID      `gorm:"column:design_id;type:uuid"`
	ArtistID       *uuid.UUID      `gorm:"column:artist_id;type:uuid"`
	UnitPriceCents int             `gorm:"column:unit_price_cents;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
