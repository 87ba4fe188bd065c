package controllers

import (
	"net/http"
	"strings"

	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/api/responses"
	"github.com/rbeltranc/stitchmarket-backend/api/validators"
	"github.com/rbeltranc/stitchmarket-backend/internal/orders"
	"github.com/rbeltranc/stitchmarket-backend/pkg/auth"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
	"github.com/rbeltranc/stitchmarket-backend/pkg/pagination"
)

type updateStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

type updateTrackingPayload struct {
	CarrierTrackingID *string `json:"carrier_tracking_id"`
	TrackingLink      *string `json:"tracking_link"`
}

func capabilityFromRequest(r *http.Request) auth.Capability {
	return auth.CapabilityFromClaims(middleware.ClaimsFromContext(r.Context()))
}

// AdminOrdersList returns a filtered, cursor-paginated order listing.
func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filter := orders.ListFilter{
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
				return
			}
			filter.Status = &status
		}

		page, err := svc.List(ctx, capabilityFromRequest(r), filter, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminOrdersStats returns per-status counts and paid revenue.
func AdminOrdersStats(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		stats, err := svc.Stats(ctx, capabilityFromRequest(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AdminOrderUpdateStatus advances the order through its lifecycle graph.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		next := enums.OrderStatus(strings.ToLower(strings.TrimSpace(payload.Status)))
		if !next.IsValid() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
			return
		}

		order, err := svc.UpdateStatus(ctx, capabilityFromRequest(r), orderID, next)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderUpdateTracking sets the carrier tracking fields on the shipping
// snapshot.
func AdminOrderUpdateTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateTrackingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.UpdateTracking(ctx, capabilityFromRequest(r), orderID, orders.TrackingUpdate{
			CarrierTrackingID: payload.CarrierTrackingID,
			TrackingLink:      payload.TrackingLink,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
