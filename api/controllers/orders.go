package controllers

import (
	"net/http"

	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/internal/orders"
	"github.com/grocerlane/gateway/pkg/logger"
)

// OrdersHistory lists the signed in user's orders, newest first.
func OrdersHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.HistoryForUser(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// AdminOrdersList returns every order in the system.
func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.All(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}
