package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/internal/catalog"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

// Service defines cart operations for a single actor.
type Service interface {
	AddItem(ctx context.Context, actor types.Actor, input AddItemInput) (*models.CartItem, error)
	RemoveItem(ctx context.Context, actor types.Actor, itemID uuid.UUID) error
	Clear(ctx context.Context, actor types.Actor) error
	List(ctx context.Context, actor types.Actor) (*View, error)
}

// AddItemInput captures one add-to-cart request. The unit price is the
// client-submitted price at add time; checkout reads it back from the stored
// row rather than re-fetching the catalog.
type AddItemInput struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Variant        types.VariantKey `json:"variant"`
	UnitPriceCents int              `json:"unit_price_cents"`
	Quantity       int              `json:"quantity"`
}

// View is the actor's cart with its derived subtotal.
type View struct {
	Items         []models.CartItem `json:"items"`
	SubtotalCents int               `json:"subtotal_cents"`
}

type service struct {
	repo    Repository
	catalog catalog.Service
}

// NewService wires a cart service with its repository and catalog lookup.
func NewService(repo Repository, catalogSvc catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: catalogSvc}, nil
}

func (s *service) AddItem(ctx context.Context, actor types.Actor, input AddItemInput) (*models.CartItem, error) {
	if actor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart actor is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}

	variant, err := s.catalog.GetVariant(ctx, input.ProductID, input.Variant)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ActorKind:      actor.Kind,
		ActorID:        actor.ID,
		ProductID:      variant.ProductID,
		Size:           variant.Size,
		Color:          variant.Color,
		DesignID:       variant.DesignID,
		ArtistID:       variant.ArtistID,
		UnitPriceCents: input.UnitPriceCents,
		Quantity:       input.Quantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	// Re-read so merged quantities are reflected after an upsert hit.
	stored, err := s.repo.FindByVariant(ctx, actor, variant.ProductID, variant.Size, variant.Color)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart item")
	}
	return stored, nil
}

func (s *service) RemoveItem(ctx context.Context, actor types.Actor, itemID uuid.UUID) error {
	if actor.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart actor is required")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	affected, err := s.repo.DeleteByID(ctx, actor, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, actor types.Actor) error {
	if actor.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart actor is required")
	}
	if err := s.repo.ClearActor(ctx, actor); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

func (s *service) List(ctx context.Context, actor types.Actor) (*View, error) {
	if actor.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart actor is required")
	}

	items, err := s.repo.ListByActor(ctx, actor)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
	}

	subtotal := 0
	for _, item := range items {
		subtotal += item.UnitPriceCents * item.Quantity
	}
	return &View{Items: items, SubtotalCents: subtotal}, nil
}
