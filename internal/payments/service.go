package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/internal/cart"
	"github.com/rbeltranc/stitchmarket-backend/internal/checkout"
	"github.com/rbeltranc/stitchmarket-backend/internal/ledger"
	"github.com/rbeltranc/stitchmarket-backend/internal/orders"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/gateway"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/metrics"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

// Gateway confirmation statuses as they arrive on the webhook payload.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Service drives the payment lifecycle: creating gateway intents and applying
// gateway confirmations exactly once.
type Service interface {
	Initiate(ctx context.Context, orderID uuid.UUID) (*gateway.PaymentIntent, error)
	Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error)
}

type intentClient interface {
	CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (*gateway.PaymentIntent, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// VerifyInput is the normalized confirmation extracted from a webhook payload.
type VerifyInput struct {
	OrderID          uuid.UUID
	GatewayPaymentID string
	AmountCents      int
	Status           string
}

// VerifyResult reports what the confirmation did to the order.
type VerifyResult struct {
	Order    *models.Order
	Replayed bool
}

type service struct {
	tx        txRunner
	orderRepo orders.Repository
	cartRepo  cart.Repository
	ledger    ledger.Service
	gateway   intentClient
	logg      *logger.Logger
	metrics   *metrics.CommerceMetrics
}

// NewService wires the payment service.
func NewService(
	tx txRunner,
	orderRepo orders.Repository,
	cartRepo cart.Repository,
	ledgerSvc ledger.Service,
	gatewayClient intentClient,
	logg *logger.Logger,
	commerceMetrics *metrics.CommerceMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if gatewayClient == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		ledger:    ledgerSvc,
		gateway:   gatewayClient,
		logg:      logg,
		metrics:   commerceMetrics,
	}, nil
}

// Initiate registers a payment intent with the gateway and stores its
// reference on the order. Gateway failures leave the order pending so the
// buyer can retry.
func (s *service) Initiate(ctx context.Context, orderID uuid.UUID) (*gateway.PaymentIntent, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.CreateIntentRequest{
		OrderNumber: order.OrderNumber,
		AmountCents: int64(order.TotalCents),
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateFields(ctx, order.ID, map[string]any{
		"gateway_intent_id": intent.ID,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing gateway intent")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, fmt.Sprintf("payment intent %s created for order %s", intent.ID, order.OrderNumber))
	return intent, nil
}

// Verify applies one gateway confirmation to its order. The whole application
// runs in a single transaction holding a row lock on the order, so a replayed
// confirmation observes payment_status=paid and does nothing.
func (s *service) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveVerifyDuration(time.Since(started))
	}()

	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if strings.TrimSpace(input.GatewayPaymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway payment id is required")
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != StatusSucceeded && status != StatusFailed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", input.Status))
	}

	result := &VerifyResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking order")
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			result.Order = order
			result.Replayed = true
			return nil
		}

		if status == StatusFailed {
			if err := repo.UpdateFields(ctx, order.ID, map[string]any{
				"payment_status": enums.PaymentStatusFailed,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking payment failed")
			}
			order.PaymentStatus = enums.PaymentStatusFailed
			result.Order = order
			return nil
		}

		if input.AmountCents != order.TotalCents {
			return pkgerrors.New(pkgerrors.CodeIntegrity,
				fmt.Sprintf("confirmed amount %d does not match order total %d", input.AmountCents, order.TotalCents))
		}

		if err := repo.CreatePaymentConfirmation(ctx, &models.PaymentConfirmation{
			OrderID:          order.ID,
			GatewayPaymentID: input.GatewayPaymentID,
			AmountCents:      input.AmountCents,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "recording payment confirmation")
		}

		fields := map[string]any{"payment_status": enums.PaymentStatusPaid}
		if order.Status == enums.OrderStatusCreated {
			now := time.Now().UTC()
			fields["status"] = enums.OrderStatusProcessing
			fields["processing_started_at"] = now
			order.Status = enums.OrderStatusProcessing
			order.ProcessingStartedAt = &now
		}
		if err := repo.UpdateFields(ctx, order.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking payment paid")
		}
		order.PaymentStatus = enums.PaymentStatusPaid

		for _, item := range order.Items {
			if item.ArtistID == nil || item.ArtistCommissionCents <= 0 {
				continue
			}
			amount := item.ArtistCommissionCents * item.Quantity
			if _, err := s.ledger.Record(ctx, tx, ledger.RecordEntryInput{
				ArtistID:    *item.ArtistID,
				OrderID:     order.ID,
				OrderItemID: item.ID,
				AmountCents: amount,
				Rate:        checkout.CommissionRate(),
			}); err != nil {
				return err
			}
			s.metrics.AddCommissionCents(string(enums.CommissionStatusPending), int64(amount))
		}

		actor := types.Actor{Kind: order.CartActorKind, ID: order.CartActorID}
		if err := s.cartRepo.WithTx(tx).ClearActor(ctx, actor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart after payment")
		}

		result.Order = order
		return nil
	})
	if err != nil {
		s.metrics.IncPaymentVerified("error")
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, result.Order.ID.String())
	switch {
	case result.Replayed:
		s.metrics.IncPaymentReplay()
		s.logg.Info(logCtx, fmt.Sprintf("payment %s already confirmed for order %s", input.GatewayPaymentID, result.Order.OrderNumber))
	case result.Order.PaymentStatus == enums.PaymentStatusFailed:
		s.metrics.IncPaymentVerified("failed")
		s.logg.Warn(logCtx, fmt.Sprintf("payment %s failed for order %s", input.GatewayPaymentID, result.Order.OrderNumber))
	default:
		s.metrics.IncPaymentVerified("paid")
		s.logg.Info(logCtx, fmt.Sprintf("order %s paid", result.Order.OrderNumber))
	}
	return result, nil
}
