package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// Repository manages persistence for commission entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.CommissionEntry) error
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.CommissionEntry, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionEntry, error)
	SumByStatus(ctx context.Context, artistID uuid.UUID) (map[enums.CommissionStatus]int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.CommissionEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.CommissionEntry, error) {
	var entries []models.CommissionEntry
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionEntry, error) {
	var entries []models.CommissionEntry
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SumByStatus(ctx context.Context, artistID uuid.UUID) (map[enums.CommissionStatus]int, error) {
	type row struct {
		Status enums.CommissionStatus
		Total  int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.CommissionEntry{}).
		Select("status, COALESCE(SUM(amount_cents), 0) AS total").
		Where("artist_id = ?", artistID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[enums.CommissionStatus]int, len(rows))
	for _, r := range rows {
		sums[r.Status] = r.Total
	}
	return sums, nil
}
