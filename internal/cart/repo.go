package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

// Repository manages persistence for cart items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, item *models.CartItem) error
	FindByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*models.CartItem, error)
	FindByVariant(ctx context.Context, actor types.Actor, productID uuid.UUID, size, color string) (*models.CartItem, error)
	ListByActor(ctx context.Context, actor types.Actor) ([]models.CartItem, error)
	ListByActorForUpdate(ctx context.Context, actor types.Actor) ([]models.CartItem, error)
	DeleteByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (int64, error)
	ClearActor(ctx context.Context, actor types.Actor) error
	AddQuantity(ctx context.Context, itemID uuid.UUID, delta int) error
	Rekey(ctx context.Context, itemID uuid.UUID, to types.Actor) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert inserts the item or, when the actor already holds the same variant,
// folds the quantity into the existing row with a single SQL increment.
func (r *repository) Upsert(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "actor_kind"},
				{Name: "actor_id"},
				{Name: "product_id"},
				{Name: "size"},
				{Name: "color"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND actor_kind = ? AND actor_id = ?", itemID, actor.Kind, actor.ID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByVariant(ctx context.Context, actor types.Actor, productID uuid.UUID, size, color string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("actor_kind = ? AND actor_id = ? AND product_id = ? AND size = ? AND color = ?",
			actor.Kind, actor.ID, productID, size, color).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByActor(ctx context.Context, actor types.Actor) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("actor_kind = ? AND actor_id = ?", actor.Kind, actor.ID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByActorForUpdate locks the actor's rows for the remainder of the
// transaction so two merges of the same cart serialize instead of both
// reading the rows before either deletes them.
func (r *repository) ListByActorForUpdate(ctx context.Context, actor types.Actor) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("actor_kind = ? AND actor_id = ?", actor.Kind, actor.ID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) DeleteByID(ctx context.Context, actor types.Actor, itemID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND actor_kind = ? AND actor_id = ?", itemID, actor.Kind, actor.ID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *repository) ClearActor(ctx context.Context, actor types.Actor) error {
	return r.db.WithContext(ctx).
		Where("actor_kind = ? AND actor_id = ?", actor.Kind, actor.ID).
		Delete(&models.CartItem{}).Error
}

// AddQuantity applies the delta as an in-database increment so concurrent
// merges never lose updates.
func (r *repository) AddQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *repository) Rekey(ctx context.Context, itemID uuid.UUID, to types.Actor) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"actor_kind": to.Kind,
			"actor_id":   to.ID,
		}).Error
}
