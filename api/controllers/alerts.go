package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchpulse/merchpulse-backend/api/responses"
	"github.com/merchpulse/merchpulse-backend/internal/alerts"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
)

// MerchantAlerts serves the daily operational alert bundle.
func MerchantAlerts(svc *alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
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

		bundle, err := svc.Detect(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bundle)
	}
}
