package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchpulse/merchpulse-backend/api/responses"
	"github.com/merchpulse/merchpulse-backend/internal/view"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
)

const defaultItemRankingSize = 5

// MerchantMetrics serves the full derived-metric bundle for one merchant.
func MerchantMetrics(builder *view.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "view builder unavailable"))
			return
		}

		merchantID := chi.URLParam(r, "merchantID")
		if merchantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMerchantID(ctx, merchantID)
		}

		rows := builder.Build(ctx, merchantID)
		if len(rows) == 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found or has no orders"))
			return
		}

		responses.WriteSuccess(w, view.Summarize(rows, defaultItemRankingSize))
	}
}
