package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

type fakeCartRepo struct {
	upsertFn func(ctx context.Context, item *models.CartItem) error
	findFn   func(ctx context.Context, actor types.Actor, productID uuid.UUID, size, color string) (*models.CartItem, error)
	listFn   func(ctx context.Context, actor types.Actor) ([]models.CartItem, error)
	deleteFn func(ctx context.Context, actor types.Actor, itemID uuid.UUID) (int64, error)
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeCartRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, item)
	}
	return nil
}

func (f *fakeCartRepo) FindByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) FindByVariant(ctx context.Context, actor types.Actor, productID uuid.UUID, size, color string) (*models.CartItem, error) {
	if f.findFn != nil {
		return f.findFn(ctx, actor, productID, size, color)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) ListByActor(ctx context.Context, actor types.Actor) ([]models.CartItem, error) {
	if f.listFn != nil {
		return f.listFn(ctx, actor)
	}
	return nil, nil
}

func (f *fakeCartRepo) ListByActorForUpdate(ctx context.Context, actor types.Actor) ([]models.CartItem, error) {
	return f.ListByActor(ctx, actor)
}

func (f *fakeCartRepo) DeleteByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, actor, itemID)
	}
	return 0, nil
}

func (f *fakeCartRepo) ClearActor(ctx context.Context, actor types.Actor) error { return nil }

func (f *fakeCartRepo) AddQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	return nil
}

func (f *fakeCartRepo) Rekey(ctx context.Context, itemID uuid.UUID, to types.Actor) error {
	return nil
}

type fakeCatalog struct {
	getFn func(ctx context.Context, productID uuid.UUID, key types.VariantKey) (*models.ProductVariant, error)
}

func (f *fakeCatalog) GetVariant(ctx context.Context, productID uuid.UUID, key types.VariantKey) (*models.ProductVariant, error) {
	if f.getFn != nil {
		return f.getFn(ctx, productID, key)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
}

func TestService_AddItemSnapshotsVariantAttribution(t *testing.T) {
	productID := uuid.New()
	artistID := uuid.New()
	designID := uuid.New()

	catalogSvc := &fakeCatalog{
		getFn: func(ctx context.Context, id uuid.UUID, key types.VariantKey) (*models.ProductVariant, error) {
			return &models.ProductVariant{
				ID:         uuid.New(),
				ProductID:  id,
				Size:       key.Size,
				Color:      key.Color,
				PriceCents: 500,
				ArtistID:   &artistID,
				DesignID:   &designID,
				Active:     true,
			}, nil
		},
	}

	var upserted *models.CartItem
	repo := &fakeCartRepo{
		upsertFn: func(ctx context.Context, item *models.CartItem) error {
			upserted = item
			return nil
		},
		findFn: func(ctx context.Context, actor types.Actor, id uuid.UUID, size, color string) (*models.CartItem, error) {
			return upserted, nil
		},
	}

	svc, err := NewService(repo, catalogSvc)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	actor := types.UserActor(uuid.NewString())
	item, err := svc.AddItem(context.Background(), actor, AddItemInput{
		ProductID:      productID,
		Variant:        types.VariantKey{Size: "M", Color: "Black"},
		UnitPriceCents: 500,
		Quantity:       2,
	})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if item.ArtistID == nil || *item.ArtistID != artistID {
		t.Fatalf("expected artist attribution from catalog, got %+v", item)
	}
	if item.DesignID == nil || *item.DesignID != designID {
		t.Fatalf("expected design attribution from catalog, got %+v", item)
	}
	if item.Quantity != 2 || item.UnitPriceCents != 500 {
		t.Fatalf("unexpected item data: %+v", item)
	}
	if item.ActorKind != actor.Kind || item.ActorID != actor.ID {
		t.Fatalf("item not keyed to actor: %+v", item)
	}
}

func TestService_AddItemValidation(t *testing.T) {
	svc, err := NewService(&fakeCartRepo{}, &fakeCatalog{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	actor := types.GuestActor("sess")
	cases := []struct {
		name  string
		actor types.Actor
		input AddItemInput
	}{
		{"zero actor", types.Actor{}, AddItemInput{ProductID: uuid.New(), Variant: types.VariantKey{Size: "m", Color: "black"}, UnitPriceCents: 500, Quantity: 1}},
		{"zero quantity", actor, AddItemInput{ProductID: uuid.New(), Variant: types.VariantKey{Size: "m", Color: "black"}, UnitPriceCents: 500}},
		{"free price", actor, AddItemInput{ProductID: uuid.New(), Variant: types.VariantKey{Size: "m", Color: "black"}, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), tc.actor, tc.input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_RemoveItemNotFound(t *testing.T) {
	repo := &fakeCartRepo{
		deleteFn: func(ctx context.Context, actor types.Actor, itemID uuid.UUID) (int64, error) {
			return 0, nil
		},
	}
	svc, err := NewService(repo, &fakeCatalog{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	err = svc.RemoveItem(context.Background(), types.GuestActor("sess"), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_ListComputesSubtotal(t *testing.T) {
	repo := &fakeCartRepo{
		listFn: func(ctx context.Context, actor types.Actor) ([]models.CartItem, error) {
			return []models.CartItem{
				{UnitPriceCents: 500, Quantity: 2},
				{UnitPriceCents: 300, Quantity: 1},
			}, nil
		},
	}
	svc, err := NewService(repo, &fakeCatalog{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	view, err := svc.List(context.Background(), types.GuestActor("sess"))
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if view.SubtotalCents != 1300 {
		t.Fatalf("expected subtotal 1300, got %d", view.SubtotalCents)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(view.Items))
	}
}
