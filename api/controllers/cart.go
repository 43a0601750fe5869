package controllers

import (
	"net/http"
	"strings"

	"github.com/grocerlane/gateway/api/middleware"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/api/validators"
	"github.com/grocerlane/gateway/internal/cart"
	"github.com/grocerlane/gateway/internal/notify"
	"github.com/grocerlane/gateway/pkg/enums"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

type cartView struct {
	Items []cart.Line     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type cartAddRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := cartSnapshot(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartAdd(svc cart.Service, toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.Add(r.Context(), sessionID, body.ProductID)
		if err != nil {
			pushCartError(toasts, sessionID, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if toasts != nil {
			toasts.Push(sessionID, enums.ToastSeveritySuccess, "Added to cart", line.Name)
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

func CartUpdateQuantity(svc cart.Service, toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.UpdateQuantity(r.Context(), sessionID, productID, body.Quantity)
		if err != nil {
			pushCartError(toasts, sessionID, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if line.ProductID == 0 {
			// Not in the cart; report the no-op rather than an empty line.
			responses.WriteSuccess(w, map[string]string{"status": "not in cart"})
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func CartRemove(svc cart.Service, toasts *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveByID(r.Context(), sessionID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if toasts != nil {
			toasts.Push(sessionID, enums.ToastSeverityInfo, "Removed from cart", "")
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear empties the cart, restoring the held units to inventory
// unless restock=false is passed.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		restock := !strings.EqualFold(r.URL.Query().Get("restock"), "false")

		if err := svc.Clear(r.Context(), sessionID, restock); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func cartSnapshot(r *http.Request, svc cart.Service) (*cartView, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	items, err := svc.Items(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	total, err := svc.Total(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	return &cartView{Items: items, Total: total}, nil
}

func pushCartError(toasts *notify.Queue, sessionID string, err error) {
	if toasts == nil {
		return
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		return
	}
	toasts.Push(sessionID, enums.ToastSeverityError, "Could not update cart", typed.Message())
}
