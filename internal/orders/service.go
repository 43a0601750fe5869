// Package orders reads purchase history from the upstream order service.
package orders

import (
	"context"
	"fmt"

	"github.com/grocerlane/gateway/internal/upstream"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
)

// Service exposes the customer history and the admin order listing.
type Service interface {
	HistoryForUser(ctx context.Context, userID int64) ([]upstream.Order, error)
	All(ctx context.Context) ([]upstream.Order, error)
}

type service struct {
	backend upstream.Backend
}

func NewService(backend upstream.Backend) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("orders service requires an upstream backend")
	}
	return &service{backend: backend}, nil
}

func (s *service) HistoryForUser(ctx context.Context, userID int64) ([]upstream.Order, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "a signed in user is required")
	}
	return s.backend.OrdersByUser(ctx, userID)
}

func (s *service) All(ctx context.Context) ([]upstream.Order, error) {
	return s.backend.AllOrders(ctx)
}
