package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/internal/cart"
	"github.com/rbeltranc/stitchmarket-backend/internal/orders"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/metrics"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service assembles durable orders from cart snapshots.
type Service interface {
	Assemble(ctx context.Context, actor types.Actor, input AssembleInput) (*models.Order, error)
}

// ShippingInput is the delivery form submitted at checkout.
type ShippingInput struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

// AssembleInput carries everything Assemble needs beyond the actor.
type AssembleInput struct {
	Shipping    ShippingInput `json:"shipping"`
	BuyerUserID *uuid.UUID    `json:"-"`
}

type service struct {
	tx        txRunner
	cartRepo  cart.Repository
	orderRepo orders.Repository
	logg      *logger.Logger
	metrics   *metrics.CommerceMetrics
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	logg *logger.Logger,
	commerceMetrics *metrics.CommerceMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		logg:      logg,
		metrics:   commerceMetrics,
	}, nil
}

// Assemble snapshots the actor's cart into an order, its items and the
// shipping record in one transaction. Prices come from the stored cart rows.
// The cart itself is left intact until payment clears.
func (s *service) Assemble(ctx context.Context, actor types.Actor, input AssembleInput) (*models.Order, error) {
	if actor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart actor is required")
	}
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListByActor(ctx, actor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart snapshot")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderNumber, err := NewOrderNumber(time.Now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order number")
	}

	order := &models.Order{
		OrderNumber:   orderNumber,
		BuyerUserID:   input.BuyerUserID,
		CartActorKind: actor.Kind,
		CartActorID:   actor.ID,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusCreated,
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, line := range items {
		split := SplitUnitPrice(line.UnitPriceCents, line.ArtistID != nil)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:             line.ProductID,
			Size:                  line.Size,
			Color:                 line.Color,
			DesignID:              line.DesignID,
			ArtistID:              line.ArtistID,
			Quantity:              line.Quantity,
			UnitPriceCents:        line.UnitPriceCents,
			BaseCostCents:         split.BaseCostCents,
			ArtistCommissionCents: split.ArtistCommissionCents,
			PlatformProfitCents:   split.PlatformProfitCents,
		})

		order.TotalCents += line.UnitPriceCents * line.Quantity
		order.PlatformRevenueCents += split.PlatformProfitCents * line.Quantity
		order.ArtistCommissionTotalCents += split.ArtistCommissionCents * line.Quantity
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)

		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		for i := range orderItems {
			orderItems[i].OrderID = created.ID
		}
		if err := repo.CreateOrderItems(ctx, orderItems); err != nil {
			return fmt.Errorf("creating order items: %w", err)
		}

		snapshot := &models.ShippingSnapshot{
			OrderID:    created.ID,
			Name:       input.Shipping.Name,
			Address:    input.Shipping.Address,
			City:       input.Shipping.City,
			Region:     input.Shipping.Region,
			PostalCode: input.Shipping.PostalCode,
			Phone:      input.Shipping.Phone,
			Email:      input.Shipping.Email,
		}
		if err := repo.CreateShippingSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("creating shipping snapshot: %w", err)
		}

		order.Items = orderItems
		order.Shipping = snapshot
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "assembling order")
	}

	s.metrics.IncOrderAssembled(string(actor.Kind))

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, fmt.Sprintf("order %s assembled", order.OrderNumber))
	return order, nil
}

func validateShipping(in ShippingInput) error {
	missing := []string{}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"address", in.Address},
		{"city", in.City},
		{"region", in.Region},
		{"postal_code", in.PostalCode},
		{"phone", in.Phone},
		{"email", in.Email},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing shipping fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
