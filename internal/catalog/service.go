// Package catalog fronts the upstream product API with a short-lived
// cache and the admin validation rules.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/grocerlane/gateway/internal/bulk"
	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/pkg/config"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const listCacheKeyPart = "products"

// Cache is the subset of the redis client the catalog needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(scope string) string
}

// Service exposes the storefront and admin catalog operations.
type Service interface {
	List(ctx context.Context) ([]upstream.Product, error)
	Search(ctx context.Context, query string) ([]upstream.Product, error)
	Get(ctx context.Context, id int64) (*upstream.Product, error)
	Create(ctx context.Context, input upstream.ProductInput) (*upstream.Product, error)
	Update(ctx context.Context, product upstream.Product) (*upstream.Product, error)
	Delete(ctx context.Context, id int64) error
	BulkUpload(ctx context.Context, r io.Reader) ([]upstream.Product, error)
}

type service struct {
	backend upstream.Backend
	cache   Cache
	parser  *bulk.Parser
	ceiling decimal.Decimal
	ttl     time.Duration
	logg    *logger.Logger
}

// NewService builds the catalog service. The cache is optional; without
// it every read goes straight to the backend.
func NewService(backend upstream.Backend, cache Cache, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("catalog service requires an upstream backend")
	}
	if logg == nil {
		return nil, fmt.Errorf("catalog service requires a logger")
	}
	return &service{
		backend: backend,
		cache:   cache,
		parser:  bulk.NewParser(cfg.PriceCeiling),
		ceiling: decimal.NewFromInt(cfg.PriceCeiling),
		ttl:     cfg.CacheTTL,
		logg:    logg,
	}, nil
}

func (s *service) List(ctx context.Context) ([]upstream.Product, error) {
	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}

	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.storeList(ctx, products)
	return products, nil
}

// Search filters the listed products on a case-insensitive name or
// description match, or an exact id match.
func (s *service) Search(ctx context.Context, query string) ([]upstream.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return products, nil
	}

	matched := make([]upstream.Product, 0, len(products))
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Name), needle) ||
			strings.Contains(strings.ToLower(product.Description), needle) ||
			needle == strconv.FormatInt(product.ID, 10) {
			matched = append(matched, product)
		}
	}
	return matched, nil
}

func (s *service) Get(ctx context.Context, id int64) (*upstream.Product, error) {
	return s.backend.GetProduct(ctx, id)
}

func (s *service) Create(ctx context.Context, input upstream.ProductInput) (*upstream.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.backend.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *service) Update(ctx context.Context, product upstream.Product) (*upstream.Product, error) {
	if product.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.validateInput(upstream.ProductInput{
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
	}); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// BulkUpload parses the CSV and creates the whole batch, or nothing.
func (s *service) BulkUpload(ctx context.Context, r io.Reader) ([]upstream.Product, error) {
	inputs, err := s.parser.Parse(r)
	if err != nil {
		details := make([]string, 0)
		for _, rowErr := range multierr.Errors(err) {
			details = append(details, rowErr.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv rejected").WithDetails(details)
	}

	created, err := s.backend.BulkCreateProducts(ctx, inputs)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *service) validateInput(input upstream.ProductInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		problems = append(problems, "price must be positive")
	}
	if input.Price.GreaterThan(s.ceiling) {
		problems = append(problems, fmt.Sprintf("price exceeds the %s ceiling", s.ceiling.String()))
	}
	if input.Quantity < 0 {
		problems = append(problems, "quantity cannot be negative")
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(problems)
	}
	return nil
}

func (s *service) cachedList(ctx context.Context) ([]upstream.Product, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, s.cache.CacheKey(listCacheKeyPart))
	if err != nil || raw == "" {
		return nil, false
	}

	var products []upstream.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		s.logg.Warn(ctx, "dropping undecodable catalog cache entry")
		s.invalidate(ctx)
		return nil, false
	}
	return products, true
}

func (s *service) storeList(ctx context.Context, products []upstream.Product) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey(listCacheKeyPart), string(payload), s.ttl); err != nil {
		s.logg.Warn(ctx, "caching catalog list failed")
	}
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CacheKey(listCacheKeyPart)); err != nil {
		s.logg.Warn(ctx, "invalidating catalog cache failed")
	}
}
