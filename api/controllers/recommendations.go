package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchpulse/merchpulse-backend/api/responses"
	"github.com/merchpulse/merchpulse-backend/internal/recommend"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
)

// MerchantRecommendations serves ranked keyword suggestions per menu item.
func MerchantRecommendations(svc *recommend.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendation service unavailable"))
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

		result, err := svc.Recommend(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
