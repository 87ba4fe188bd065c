package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// Order is the durable record assembled from a cart snapshot. Items, totals
// and the shipping snapshot are immutable once written; only payment status,
// fulfillment status, processing timestamp and tracking fields change later.
type Order struct {
	ID                         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber                string              `gorm:"column:order_number;not null;uniqueIndex"`
	BuyerUserID                *uuid.UUID          `gorm:"column:buyer_user_id;type:uuid"`
	CartActorKind              enums.ActorKind     `gorm:"column:cart_actor_kind;not null"`
	CartActorID                string              `gorm:"column:cart_actor_id;not null"`
	PaymentStatus              enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	Status                     enums.OrderStatus   `gorm:"column:status;not null;default:'created'"`
	GatewayIntentID            *string             `gorm:"column:gateway_intent_id"`
	TotalCents                 int                 `gorm:"column:total_cents;not null"`
	PlatformRevenueCents       int                 `gorm:"column:platform_revenue_cents;not null"`
	ArtistCommissionTotalCents int                 `gorm:"column:artist_commission_total_cents;not null"`
	ProcessingStartedAt        *time.Time          `gorm:"column:processing_started_at"`
	Items                      []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping                   *ShippingSnapshot   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt                  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
