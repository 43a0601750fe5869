package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grocerlane/gateway/api/responses"
	"github.com/grocerlane/gateway/internal/catalog"
	"github.com/grocerlane/gateway/internal/upstream"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
)

// ProductsList serves the storefront catalog, optionally filtered by the
// search query parameter. An unreachable upstream degrades to an empty
// catalog instead of failing the page.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Search(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
				if logg != nil {
					logg.Warn(r.Context(), "catalog unavailable, serving empty list")
				}
				responses.WriteSuccess(w, []upstream.Product{})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductsDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+param)
	}
	return id, nil
}
