package controllers

import (
	"net/http"

	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/api/responses"
	"github.com/rbeltranc/stitchmarket-backend/api/validators"
	"github.com/rbeltranc/stitchmarket-backend/internal/checkout"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
)

type checkoutPayload struct {
	Shipping checkout.ShippingInput `json:"shipping" validate:"required"`
}

// CheckoutCreate snapshots the actor's cart into an order. Guests check out
// with their session; authenticated buyers get the order linked to their
// account.
func CheckoutCreate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := checkout.AssembleInput{Shipping: payload.Shipping}
		if claims := middleware.ClaimsFromContext(ctx); claims != nil {
			buyerID := claims.UserID
			input.BuyerUserID = &buyerID
		}

		order, err := svc.Assemble(ctx, actor, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
