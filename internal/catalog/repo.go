package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/internal/repo"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
)

// Repository manages persistence for product variants.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariant(ctx context.Context, productID uuid.UUID, size, color string) (*models.ProductVariant, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	Create(ctx context.Context, variant *models.ProductVariant) error
}

type repository struct {
	repo.Base
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindVariant(ctx context.Context, productID uuid.UUID, size, color string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.DB(ctx).
		Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.DB(ctx).
		Where("id = ?", id).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) Create(ctx context.Context, variant *models.ProductVariant) error {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	return r.DB(ctx).Create(variant).Error
}
