package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/internal/notify"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
)

// Notifications lists the session's pending toasts. Expired toasts are
// purged; the rest stay queued until dismissed.
func Notifications(toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, toasts.List(sessionID))
	}
}

// NotificationDismiss removes one toast by id.
func NotificationDismiss(toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		toastID := chi.URLParam(r, "toastId")

		if !toasts.Dismiss(sessionID, toastID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "toast not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "dismissed"})
	}
}
