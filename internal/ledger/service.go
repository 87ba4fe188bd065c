package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
)

// Service defines operations over the append-only commission ledger.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.CommissionEntry, error)
	Totals(ctx context.Context, artistID uuid.UUID) (*Totals, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.CommissionEntry, error)
}

// RecordEntryInput captures the immutable data a commission entry requires.
type RecordEntryInput struct {
	ArtistID    uuid.UUID
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	AmountCents int
	Rate        decimal.Decimal
}

// Totals aggregates an artist's commission cents by payout state.
type Totals struct {
	EarnedCents  int `json:"earned_cents"`
	PendingCents int `json:"pending_cents"`
	PaidCents    int `json:"paid_cents"`
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

// Record appends one pending entry. The caller's transaction is mandatory:
// entries are only ever written alongside the payment that earned them.
func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.CommissionEntry, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "commission entries require a transaction")
	}
	if input.ArtistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.OrderItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item id is required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	entry := &models.CommissionEntry{
		ArtistID:    input.ArtistID,
		OrderID:     input.OrderID,
		OrderItemID: input.OrderItemID,
		AmountCents: input.AmountCents,
		Rate:        input.Rate,
		Status:      enums.CommissionStatusPending,
	}
	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "recording commission entry")
	}
	return entry, nil
}

func (s *service) Totals(ctx context.Context, artistID uuid.UUID) (*Totals, error) {
	if artistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}

	sums, err := s.repo.SumByStatus(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating commissions")
	}

	totals := &Totals{
		PendingCents: sums[enums.CommissionStatusPending],
		PaidCents:    sums[enums.CommissionStatusPaid],
	}
	totals.EarnedCents = totals.PendingCents + totals.PaidCents
	return totals, nil
}

func (s *service) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.CommissionEntry, error) {
	if artistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}
	entries, err := s.repo.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing commission entries")
	}
	return entries, nil
}
