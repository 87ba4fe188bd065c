package controllers

import (
	"net/http"

	"github.com/rbeltranc/stitchmarket-backend/api/middleware"
	"github.com/rbeltranc/stitchmarket-backend/api/responses"
	"github.com/rbeltranc/stitchmarket-backend/internal/ledger"
	pkgerrors "github.com/rbeltranc/stitchmarket-backend/pkg/errors"
	"github.com/rbeltranc/stitchmarket-backend/pkg/logger"
)

// ArtistEarnings returns the signed-in artist's commission totals and entries.
func ArtistEarnings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		claims := middleware.ClaimsFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		if claims.ArtistID == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "artist profile required"))
			return
		}

		totals, err := svc.Totals(ctx, *claims.ArtistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.ListByArtist(ctx, *claims.ArtistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"totals":  totals,
			"entries": entries,
		})
	}
}
