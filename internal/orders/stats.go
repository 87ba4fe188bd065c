package orders

import (
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// Summarize folds the order book into per-status counts and paid revenue.
// Pure function so it can be exercised without a database.
func Summarize(orders []models.Order) Stats {
	stats := Stats{ByStatus: make(map[enums.OrderStatus]int)}
	for _, order := range orders {
		stats.TotalOrders++
		stats.ByStatus[order.Status]++
		if order.PaymentStatus == enums.PaymentStatusPaid {
			stats.RevenueCents += order.TotalCents
		}
	}
	return stats
}
