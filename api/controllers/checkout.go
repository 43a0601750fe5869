package controllers

import (
	"net/http"

	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/internal/checkout"
	"github.com/grocerlane/gateway/internal/notify"
	"github.com/grocerlane/gateway/pkg/enums"
	"github.com/grocerlane/gateway/pkg/logger"
)

func Checkout(svc checkout.Service, toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)
		userID := middleware.UserIDFromContext(ctx)

		status := enums.AccountStatusActive
		if rec := middleware.AccountFromContext(ctx); rec != nil {
			status = rec.Status
		}

		order, err := svc.Checkout(ctx, sessionID, userID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if toasts != nil {
			toasts.Push(sessionID, enums.ToastSeveritySuccess, "Order placed", "")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
