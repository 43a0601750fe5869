package catalog

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/pkg/config"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string]string
	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.gets++
	return f.data[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	f.data[key] = value.(string)
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCache) CacheKey(scope string) string {
	return "gl:cache:" + scope
}

type listCountingBackend struct {
	upstream.Backend
	lists int
}

func (l *listCountingBackend) ListProducts(ctx context.Context) ([]upstream.Product, error) {
	l.lists++
	return l.Backend.ListProducts(ctx)
}

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{CacheTTL: 30 * time.Second, PriceCeiling: 10000}
}

func newTestService(t *testing.T) (Service, *listCountingBackend, *fakeCache, *upstream.Memory) {
	t.Helper()

	memory, err := upstream.NewMemory(config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	require.NoError(t, err)

	backend := &listCountingBackend{Backend: memory}
	cache := newFakeCache()
	logg := logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})

	svc, err := NewService(backend, cache, testCatalogConfig(), logg)
	require.NoError(t, err)
	return svc, backend, cache, memory
}

func TestListPopulatesAndReusesCache(t *testing.T) {
	svc, backend, _, _ := newTestService(t)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.Equal(t, 1, backend.lists)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, 1, backend.lists)
}

func TestSearchFiltersByNameAndDescription(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	matched, err := svc.Search(context.Background(), "basmati")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Basmati Rice", matched[0].Name)

	matched, err = svc.Search(context.Background(), "free range")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Eggs", matched[0].Name)

	all, err := svc.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Greater(t, len(all), 1)
}

func TestCreateInvalidatesCache(t *testing.T) {
	svc, backend, _, _ := newTestService(t)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), upstream.ProductInput{
		Name:     "Chickpeas",
		Price:    decimal.NewFromFloat(1.70),
		Quantity: 30,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.lists)

	var found bool
	for _, product := range listed {
		if product.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), upstream.ProductInput{
		Name:  "",
		Price: decimal.NewFromInt(-1),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().([]string)
	require.True(t, ok)
	assert.Contains(t, details, "name is required")
	assert.Contains(t, details, "price must be positive")
}

func TestCreateRejectsPriceAboveCeiling(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), upstream.ProductInput{
		Name:  "Truffles",
		Price: decimal.NewFromInt(15000),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateRequiresID(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), upstream.Product{
		Name:  "Renamed",
		Price: decimal.NewFromInt(2),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, _, memory := newTestService(t)

	product, err := memory.CreateProduct(context.Background(), upstream.ProductInput{
		Name:     "Raisins",
		Price:    decimal.NewFromFloat(2.60),
		Quantity: 12,
	})
	require.NoError(t, err)

	product.Quantity = 20
	updated, err := svc.Update(context.Background(), *product)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)

	require.NoError(t, svc.Delete(context.Background(), product.ID))
	_, err = svc.Get(context.Background(), product.ID)
	require.Error(t, err)
}

func TestBulkUploadCreatesBatch(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	csv := "name,description,price,quantity,imageUrl\n" +
		"Rice,Long grain rice,4.50,100,\n" +
		"Basmati,Aged basmati,5.10,90,\n"

	created, err := svc.BulkUpload(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "Rice", created[0].Name)
}

func TestBulkUploadRejectsWholeBatch(t *testing.T) {
	svc, _, _, memory := newTestService(t)

	before, err := memory.ListProducts(context.Background())
	require.NoError(t, err)

	csv := "Rice,fine,4.50,100\nCaviar,too dear,15000,5\n"
	_, err = svc.BulkUpload(context.Background(), strings.NewReader(csv))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	after, err := memory.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestListWithoutCache(t *testing.T) {
	memory, err := upstream.NewMemory(config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	require.NoError(t, err)

	backend := &listCountingBackend{Backend: memory}
	logg := logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
	svc, err := NewService(backend, nil, testCatalogConfig(), logg)
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.lists)
}
