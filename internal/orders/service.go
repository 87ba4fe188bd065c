package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/auth"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order reads plus the admin lifecycle mutations.
type Service interface {
	Find(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, capability auth.Capability, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	UpdateTracking(ctx context.Context, capability auth.Capability, orderID uuid.UUID, update TrackingUpdate) (*models.Order, error)
	List(ctx context.Context, capability auth.Capability, filter ListFilter, params pagination.Params) (*Page, error)
	Stats(ctx context.Context, capability auth.Capability) (*Stats, error)
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewService wires the orders service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, logg: logg}, nil
}

func (s *service) Find(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// UpdateStatus applies one legal transition under a row lock. The first entry
// into processing stamps processing_started_at.
func (s *service) UpdateStatus(ctx context.Context, capability auth.Capability, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !capability.CanManageOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order management requires an admin")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}

		if !CanTransition(order.Status, next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
		}

		fields := map[string]any{"status": next}
		if next == enums.OrderStatusProcessing && order.ProcessingStartedAt == nil {
			now := time.Now().UTC()
			fields["processing_started_at"] = now
			order.ProcessingStartedAt = &now
		}
		if err := repo.UpdateFields(ctx, order.ID, fields); err != nil {
			return err
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "updating order status")
	}

	logCtx := s.logg.WithOrderID(ctx, updated.ID.String())
	s.logg.Info(logCtx, fmt.Sprintf("order status updated to %s", next))
	return updated, nil
}

func (s *service) UpdateTracking(ctx context.Context, capability auth.Capability, orderID uuid.UUID, update TrackingUpdate) (*models.Order, error) {
	if !capability.CanManageOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order management requires an admin")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if update.CarrierTrackingID == nil && update.TrackingLink == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no tracking fields provided")
	}

	if _, err := s.Find(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTracking(ctx, orderID, update); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating tracking")
	}
	return s.Find(ctx, orderID)
}

func (s *service) List(ctx context.Context, capability auth.Capability, filter ListFilter, params pagination.Params) (*Page, error) {
	if !capability.CanManageOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order listing requires an admin")
	}

	page, err := s.repo.List(ctx, filter, params)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return page, nil
}

func (s *service) Stats(ctx context.Context, capability auth.Capability) (*Stats, error) {
	if !capability.CanManageOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order stats require an admin")
	}

	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders for stats")
	}
	stats := Summarize(orders)
	return &stats, nil
}
