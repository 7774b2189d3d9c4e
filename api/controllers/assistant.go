package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merchpulse/merchpulse-backend/api/responses"
	"github.com/merchpulse/merchpulse-backend/api/validators"
	"github.com/merchpulse/merchpulse-backend/internal/assistant"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
)

type askAssistantRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// AskAssistant narrates merchant statistics through the generative backend.
func AskAssistant(svc *assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assistant service unavailable"))
			return
		}

		merchantID := chi.URLParam(r, "merchantID")
		if merchantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required"))
			return
		}

		var payload askAssistantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMerchantID(ctx, merchantID)
		}

		reply, err := svc.Ask(ctx, merchantID, payload.Question)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, reply)
	}
}

// AssistantHistory returns the merchant's past exchanges, oldest first.
func AssistantHistory(svc *assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assistant service unavailable"))
			return
		}

		merchantID := chi.URLParam(r, "merchantID")
		if merchantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required"))
			return
		}

		entries, err := svc.History(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
