package orders

import (
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status *enums.OrderStatus
	Search string
}

// Page is one cursor page of orders.
type Page struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Stats summarizes the order book for the admin dashboard.
type Stats struct {
	TotalOrders  int                       `json:"total_orders"`
	ByStatus     map[enums.OrderStatus]int `json:"by_status"`
	RevenueCents int                       `json:"revenue_cents"`
}

// TrackingUpdate carries the admin-editable shipping fields.
type TrackingUpdate struct {
	CarrierTrackingID *string `json:"carrier_tracking_id"`
	TrackingLink      *string `json:"tracking_link"`
}
