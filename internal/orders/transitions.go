package orders

import "github.com/rbeltranc/stitchmarket-backend/pkg/enums"

// transitions is the legal fulfillment graph. Terminal states have no exits;
// cancellation is allowed any time before delivery.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusCreated:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  {},
	enums.OrderStatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
