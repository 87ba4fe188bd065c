package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/api/responses"
	"github.com/rbeltranc/stitchmarket-backend/internal/orders"
	"github.com/rbeltranc/stitchmarket-backend/internal/payments"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
)

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

// OrderGet returns one order to its owner or an admin.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Find(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if !canViewOrder(ctx, order) {
			// Hide existence from non-owners.
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderPay creates a payment intent for the order with the gateway.
func OrderPay(svc payments.Service, ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || ordersSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordersSvc.Find(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !canViewOrder(ctx, order) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		intent, err := svc.Initiate(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"intent_id":    intent.ID,
			"checkout_url": intent.CheckoutURL,
		})
	}
}

// canViewOrder allows the order's owner (its cart actor or linked buyer) and
// admins; everyone else sees not-found.
func canViewOrder(ctx context.Context, order *models.Order) bool {
	if order == nil {
		return false
	}
	if claims := middleware.ClaimsFromContext(ctx); claims != nil && claims.Role == enums.MemberRoleAdmin {
		return true
	}
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		return false
	}
	if order.CartActorKind == actor.Kind && order.CartActorID == actor.ID {
		return true
	}
	if actor.IsUser() && order.BuyerUserID != nil && order.BuyerUserID.String() == actor.ID {
		return true
	}
	return false
}
