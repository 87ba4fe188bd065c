package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/api/responses"
	"github.com/rbeltranc/stitchmarket-backend/api/validators"
	"github.com/rbeltranc/stitchmarket-backend/internal/cart"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

type addCartItemPayload struct {
	ProductID      string `json:"product_id" validate:"required,uuid4"`
	Size           string `json:"size" validate:"required"`
	Color          string `json:"color" validate:"required"`
	UnitPriceCents int    `json:"unit_price_cents" validate:"required,min=1"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
}

type mergeCartPayload struct {
	GuestSessionID string `json:"guest_session_id" validate:"required"`
}

// CartList returns the current actor's cart with its subtotal.
func CartList(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		view, err := svc.List(ctx, actor)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds a variant to the actor's cart or folds the quantity into
// an existing row.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		item, err := svc.AddItem(ctx, actor, cart.AddItemInput{
			ProductID:      productID,
			Variant:        types.VariantKey{Size: payload.Size, Color: payload.Color},
			UnitPriceCents: payload.UnitPriceCents,
			Quantity:       payload.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// CartRemoveItem deletes one cart row owned by the actor.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "itemId"))
		itemID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		if err := svc.RemoveItem(ctx, actor, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// CartMerge folds the guest session's cart into the authenticated user's cart.
func CartMerge(reconciler *cart.Reconciler, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reconciler == nil || cartSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(ctx)
		if !ok || !actor.IsUser() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required"))
			return
		}

		var payload mergeCartPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		guest := types.GuestActor(strings.TrimSpace(payload.GuestSessionID))
		if err := reconciler.Reconcile(ctx, guest, actor); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := cartSvc.List(ctx, actor)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
