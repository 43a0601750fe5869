package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grocerlane/gateway/internal/catalog"
	"github.com/grocerlane/gateway/internal/upstream"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog satisfies catalog.Service with canned search results.
type stubCatalog struct {
	catalog.Service
	products  []upstream.Product
	searchErr error
}

func (s *stubCatalog) Search(ctx context.Context, query string) ([]upstream.Product, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.products, nil
}

func controllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func TestProductsListServesCatalog(t *testing.T) {
	svc := &stubCatalog{products: []upstream.Product{{ID: 1, Name: "Apples"}}}
	handler := ProductsList(svc, controllerLogger())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Data []upstream.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Apples", env.Data[0].Name)
}

func TestProductsListDegradesWhenUpstreamIsDown(t *testing.T) {
	svc := &stubCatalog{searchErr: pkgerrors.New(pkgerrors.CodeDependency, "catalog unreachable")}
	handler := ProductsList(svc, controllerLogger())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Data []upstream.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Data)
}

func TestProductsListPropagatesOtherErrors(t *testing.T) {
	svc := &stubCatalog{searchErr: pkgerrors.New(pkgerrors.CodeInternal, "boom")}
	handler := ProductsList(svc, controllerLogger())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
