package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/auth"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/pagination"
)

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOrdersRepo struct {
	findFn      func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	lockFn      func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	updateCalls []map[string]any
	listFn      func(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error)
	listAllFn   func(ctx context.Context) ([]models.Order, error)
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (f *fakeOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (f *fakeOrdersRepo) CreateShippingSnapshot(ctx context.Context, snapshot *models.ShippingSnapshot) error {
	return nil
}

func (f *fakeOrdersRepo) CreatePaymentConfirmation(ctx context.Context, confirmation *models.PaymentConfirmation) error {
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if f.lockFn != nil {
		return f.lockFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	f.updateCalls = append(f.updateCalls, fields)
	return nil
}

func (f *fakeOrdersRepo) UpdateTracking(ctx context.Context, orderID uuid.UUID, update TrackingUpdate) error {
	return nil
}

func (f *fakeOrdersRepo) List(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter, params)
	}
	return &Page{}, nil
}

func (f *fakeOrdersRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func adminCapability() auth.Capability {
	return auth.Capability{UserID: uuid.New(), Role: enums.MemberRoleAdmin}
}

func TestService_UpdateStatusRejectsIllegalTransition(t *testing.T) {
	orderID := uuid.New()
	repo := &fakeOrdersRepo{
		lockFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, Status: enums.OrderStatusDelivered}, nil
		},
	}
	svc, err := NewService(passthroughTx{}, repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), adminCapability(), orderID, enums.OrderStatusProcessing)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.updateCalls) != 0 {
		t.Fatalf("expected no writes for rejected transition")
	}
}

func TestService_UpdateStatusAllowsCreatedToCancelled(t *testing.T) {
	orderID := uuid.New()
	repo := &fakeOrdersRepo{
		lockFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, Status: enums.OrderStatusCreated}, nil
		},
	}
	svc, err := NewService(passthroughTx{}, repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	order, err := svc.UpdateStatus(context.Background(), adminCapability(), orderID, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if order.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", order.Status)
	}
}

func TestService_UpdateStatusStampsProcessingStart(t *testing.T) {
	orderID := uuid.New()
	repo := &fakeOrdersRepo{
		lockFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, Status: enums.OrderStatusCreated}, nil
		},
	}
	svc, err := NewService(passthroughTx{}, repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	order, err := svc.UpdateStatus(context.Background(), adminCapability(), orderID, enums.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if order.ProcessingStartedAt == nil {
		t.Fatal("expected processing_started_at to be stamped")
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.updateCalls))
	}
	if _, ok := repo.updateCalls[0]["processing_started_at"]; !ok {
		t.Fatalf("expected processing_started_at in update fields: %v", repo.updateCalls[0])
	}
}

func TestService_UpdateStatusRequiresAdmin(t *testing.T) {
	svc, err := NewService(passthroughTx{}, &fakeOrdersRepo{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	capability := auth.Capability{UserID: uuid.New(), Role: enums.MemberRoleCustomer}
	_, err = svc.UpdateStatus(context.Background(), capability, uuid.New(), enums.OrderStatusProcessing)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	_, err = svc.Stats(context.Background(), capability)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error for stats, got %v", err)
	}
}

func TestService_StatsFoldsOrders(t *testing.T) {
	repo := &fakeOrdersRepo{
		listAllFn: func(ctx context.Context) ([]models.Order, error) {
			return []models.Order{
				{Status: enums.OrderStatusCreated, PaymentStatus: enums.PaymentStatusPending, TotalCents: 800},
				{Status: enums.OrderStatusProcessing, PaymentStatus: enums.PaymentStatusPaid, TotalCents: 800},
				{Status: enums.OrderStatusDelivered, PaymentStatus: enums.PaymentStatusPaid, TotalCents: 1200},
				{Status: enums.OrderStatusCancelled, PaymentStatus: enums.PaymentStatusFailed, TotalCents: 500},
			}, nil
		},
	}
	svc, err := NewService(passthroughTx{}, repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	stats, err := svc.Stats(context.Background(), adminCapability())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalOrders != 4 {
		t.Fatalf("expected 4 orders, got %d", stats.TotalOrders)
	}
	if stats.RevenueCents != 2000 {
		t.Fatalf("expected revenue 2000, got %d", stats.RevenueCents)
	}
	if stats.ByStatus[enums.OrderStatusProcessing] != 1 || stats.ByStatus[enums.OrderStatusCancelled] != 1 {
		t.Fatalf("unexpected status counts: %v", stats.ByStatus)
	}
}

func TestService_ListKeepsValidationCode(t *testing.T) {
	repo := &fakeOrdersRepo{
		listFn: func(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		},
	}
	svc, err := NewService(passthroughTx{}, repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.List(context.Background(), adminCapability(), ListFilter{}, pagination.Params{Cursor: "garbage"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestCanTransitionGraph(t *testing.T) {
	cases := []struct {
		from, to enums.OrderStatus
		want     bool
	}{
		{enums.OrderStatusCreated, enums.OrderStatusProcessing, true},
		{enums.OrderStatusProcessing, enums.OrderStatusShipped, true},
		{enums.OrderStatusShipped, enums.OrderStatusDelivered, true},
		{enums.OrderStatusShipped, enums.OrderStatusCancelled, true},
		{enums.OrderStatusDelivered, enums.OrderStatusProcessing, false},
		{enums.OrderStatusDelivered, enums.OrderStatusCancelled, false},
		{enums.OrderStatusCancelled, enums.OrderStatusCreated, false},
		{enums.OrderStatusCreated, enums.OrderStatusDelivered, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
