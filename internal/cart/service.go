// Package cart keeps one accumulator per storefront session and mirrors
// every local change into the upstream inventory.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/grocerlane/gateway/internal/upstream"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

// Line is one product position held in a session cart. Available is the
// server-side stock observed at the last successful sync plus what the
// cart already holds, so it is the most the session may keep of this
// product.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Available int             `json:"available"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// Service is the per-session cart accumulator.
type Service interface {
	Add(ctx context.Context, sessionID string, productID int64) (Line, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (Line, error)
	RemoveByID(ctx context.Context, sessionID string, productID int64) error
	Clear(ctx context.Context, sessionID string, restock bool) error
	Items(ctx context.Context, sessionID string) ([]Line, error)
	Total(ctx context.Context, sessionID string) (decimal.Decimal, error)
	Drop(sessionID string)
}

type sessionCart struct {
	mu    sync.Mutex
	lines []Line
}

type service struct {
	mu      sync.Mutex
	carts   map[string]*sessionCart
	backend upstream.Backend
	logg    *logger.Logger
}

// NewService wires the accumulator to the upstream inventory.
func NewService(backend upstream.Backend, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("cart service requires an upstream backend")
	}
	if logg == nil {
		return nil, fmt.Errorf("cart service requires a logger")
	}
	return &service{
		carts:   make(map[string]*sessionCart),
		backend: backend,
		logg:    logg,
	}, nil
}

func (s *service) cartFor(sessionID string) *sessionCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &sessionCart{}
		s.carts[sessionID] = cart
	}
	return cart
}

// Add puts one unit of the product into the session cart. The local line
// is updated first; the matching inventory decrement is reported upstream
// and a failure there is logged but does not roll the line back.
func (s *service) Add(ctx context.Context, sessionID string, productID int64) (Line, error) {
	if sessionID == "" {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}

	product, err := s.backend.GetProduct(ctx, productID)
	if err != nil {
		return Line{}, err
	}

	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	idx := indexOf(cart.lines, productID)
	if idx < 0 {
		if product.Quantity <= 0 {
			return Line{}, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
		}
		cart.lines = append(cart.lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
			Available: product.Quantity,
			ImageURL:  product.ImageURL,
		})
		idx = len(cart.lines) - 1
	} else {
		line := &cart.lines[idx]
		// The fetch above is the authoritative stock reading; admin
		// restocks since the last sync move the ceiling up.
		line.Available = line.Quantity + product.Quantity
		if product.Quantity <= 0 {
			return Line{}, pkgerrors.New(pkgerrors.CodeConflict, "no more stock available for this product")
		}
		line.Quantity++
	}

	s.syncDecrement(ctx, &cart.lines[idx], 1)
	return cart.lines[idx], nil
}

// UpdateQuantity moves the line to the requested quantity. Unknown
// products are a no-op. Values below one are clamped to one; values above
// the observed stock are rejected.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (Line, error) {
	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	idx := indexOf(cart.lines, productID)
	if idx < 0 {
		return Line{}, nil
	}
	line := &cart.lines[idx]

	if quantity < 1 {
		quantity = 1
	}
	if quantity > line.Available {
		return Line{}, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock")
	}

	delta := quantity - line.Quantity
	line.Quantity = quantity

	switch {
	case delta > 0:
		s.syncDecrement(ctx, line, delta)
	case delta < 0:
		s.syncIncrement(ctx, line, -delta)
	}
	return *line, nil
}

// RemoveByID drops the line and returns its units to the upstream
// inventory. Products not in the cart are a no-op, and the line is
// removed even when the restock call fails.
func (s *service) RemoveByID(ctx context.Context, sessionID string, productID int64) error {
	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	idx := indexOf(cart.lines, productID)
	if idx < 0 {
		return nil
	}

	line := cart.lines[idx]
	if line.Quantity > 0 {
		if _, err := s.backend.IncrementQuantity(ctx, line.ProductID, line.Quantity); err != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": line.ProductID,
				"amount":     line.Quantity,
			}), "restock on remove failed")
		}
	}
	cart.lines = append(cart.lines[:idx], cart.lines[idx+1:]...)
	return nil
}

// Clear empties the cart. With restock set, every held unit is returned
// to the upstream inventory first.
func (s *service) Clear(ctx context.Context, sessionID string, restock bool) error {
	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	if restock {
		for _, line := range cart.lines {
			if line.Quantity <= 0 {
				continue
			}
			if _, err := s.backend.IncrementQuantity(ctx, line.ProductID, line.Quantity); err != nil {
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
					"product_id": line.ProductID,
					"amount":     line.Quantity,
				}), "restock on clear failed")
			}
		}
	}
	cart.lines = nil
	return nil
}

// Items returns a snapshot of the cart lines.
func (s *service) Items(ctx context.Context, sessionID string) ([]Line, error) {
	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()
	return append([]Line(nil), cart.lines...), nil
}

// Total is the sum of price times quantity across all lines.
func (s *service) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart := s.cartFor(sessionID)
	cart.mu.Lock()
	defer cart.mu.Unlock()

	total := decimal.Zero
	for _, line := range cart.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// Drop discards the session's cart without touching upstream inventory.
// Used when a session ends after checkout already settled the stock.
func (s *service) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func (s *service) syncDecrement(ctx context.Context, line *Line, amount int) {
	product, err := s.backend.DecrementQuantity(ctx, line.ProductID, amount)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"product_id": line.ProductID,
			"amount":     amount,
		}), "inventory decrement failed")
		return
	}
	line.Available = line.Quantity + product.Quantity
}

func (s *service) syncIncrement(ctx context.Context, line *Line, amount int) {
	product, err := s.backend.IncrementQuantity(ctx, line.ProductID, amount)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"product_id": line.ProductID,
			"amount":     amount,
		}), "inventory increment failed")
		return
	}
	line.Available = line.Quantity + product.Quantity
}

func indexOf(lines []Line, productID int64) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
