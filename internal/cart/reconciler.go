package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Reconciler folds a guest cart into a user cart at login.
type Reconciler struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
}

// NewReconciler wires the reconciler with its transaction runner and repository.
func NewReconciler(tx txRunner, repo Repository, logg *logger.Logger) (*Reconciler, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reconciler{tx: tx, repo: repo, logg: logg}, nil
}

// Reconcile moves every guest row to the user: matching variants merge their
// quantities, the rest are re-keyed. The guest rows are read under a row lock,
// so a duplicate merge blocks until the first commits and then sees an empty
// guest cart. Any row failure rolls the whole transaction back.
func (r *Reconciler) Reconcile(ctx context.Context, guest, user types.Actor) error {
	if guest.IsZero() || guest.IsUser() {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest actor is required")
	}
	if user.IsZero() || !user.IsUser() {
		return pkgerrors.New(pkgerrors.CodeValidation, "user actor is required")
	}

	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := r.repo.WithTx(tx)

		guestItems, err := repo.ListByActorForUpdate(ctx, guest)
		if err != nil {
			return fmt.Errorf("listing guest cart: %w", err)
		}
		if len(guestItems) == 0 {
			return nil
		}

		var itemErrs error
		for _, guestItem := range guestItems {
			existing, err := repo.FindByVariant(ctx, user, guestItem.ProductID, guestItem.Size, guestItem.Color)
			switch {
			case err == nil:
				if err := repo.AddQuantity(ctx, existing.ID, guestItem.Quantity); err != nil {
					itemErrs = multierr.Append(itemErrs, fmt.Errorf("merging item %s: %w", guestItem.ID, err))
					continue
				}
				if _, err := repo.DeleteByID(ctx, guest, guestItem.ID); err != nil {
					itemErrs = multierr.Append(itemErrs, fmt.Errorf("deleting merged item %s: %w", guestItem.ID, err))
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := repo.Rekey(ctx, guestItem.ID, user); err != nil {
					itemErrs = multierr.Append(itemErrs, fmt.Errorf("rekeying item %s: %w", guestItem.ID, err))
				}
			default:
				itemErrs = multierr.Append(itemErrs, fmt.Errorf("looking up user item for %s: %w", guestItem.ID, err))
			}
		}
		return itemErrs
	})
	if err != nil {
		appErr := pkgerrors.As(err)
		if appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "reconciling carts")
	}

	logCtx := r.logg.WithActor(ctx, string(user.Kind), user.ID)
	r.logg.Info(logCtx, "guest cart reconciled")
	return nil
}
