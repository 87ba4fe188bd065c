package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConfirmation records every gateway confirmation applied to an order.
// The unique (order_id, gateway_payment_id) pair is the idempotency key that
// makes webhook redelivery a no-op.
type PaymentConfirmation struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_payment_confirmation_key"`
	GatewayPaymentID string    `gorm:"column:gateway_payment_id;not null;uniqueIndex:idx_payment_confirmation_key"`
	AmountCents      int       `gorm:"column:amount_cents;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
