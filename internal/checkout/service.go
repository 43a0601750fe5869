// Package checkout turns a session cart into an upstream order.
package checkout

import (
	"context"
	"fmt"

	"github.com/grocerlane/gateway/internal/cart"
	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/pkg/enums"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
)

// Service places orders for a session.
type Service interface {
	Checkout(ctx context.Context, sessionID string, userID int64, status enums.AccountStatus) (*upstream.Order, error)
}

type service struct {
	carts   cart.Service
	backend upstream.Backend
	logg    *logger.Logger
}

func NewService(carts cart.Service, backend upstream.Backend, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("checkout service requires the cart service")
	}
	if backend == nil {
		return nil, fmt.Errorf("checkout service requires an upstream backend")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout service requires a logger")
	}
	return &service{carts: carts, backend: backend, logg: logg}, nil
}

// Checkout validates the session locally, then submits the order. Every
// guard runs before any network call. Stock was already decremented as
// the cart was filled, so the cart is cleared without restocking.
func (s *service) Checkout(ctx context.Context, sessionID string, userID int64, status enums.AccountStatus) (*upstream.Order, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if status == enums.AccountStatusDeactivated {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "deactivated accounts cannot place orders")
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total, err := s.carts.Total(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]upstream.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, upstream.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.backend.PlaceOrder(ctx, upstream.OrderInput{
		UserID: userID,
		Items:  lines,
		Total:  total,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID, false); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "clearing cart after checkout failed")
	}
	return order, nil
}
