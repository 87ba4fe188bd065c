package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

// Service resolves catalog variants for cart and checkout flows.
type Service interface {
	GetVariant(ctx context.Context, productID uuid.UUID, key types.VariantKey) (*models.ProductVariant, error)
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetVariant(ctx context.Context, productID uuid.UUID, key types.VariantKey) (*models.ProductVariant, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	key = key.Normalize()
	if key.Size == "" || key.Color == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size and color are required")
	}

	variant, err := s.repo.FindVariant(ctx, productID, key.Size, key.Color)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up product variant")
	}
	if !variant.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
	}
	return variant, nil
}
