package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/blend/api"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// specRouter matches requests against the embedded OpenAPI document.
var specRouter = sync.OnceValues(func() (routers.Router, error) {
	doc, err := api.Load(context.Background())
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	return router, nil
})

// validateRequests rejects requests that do not match the OpenAPI document
// with 400. Paths outside the document (metrics, the document itself) pass through.
func validateRequests(router routers.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
			})
			if err != nil {
				logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// serveSpec handles GET /openapi.yaml.
func serveSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(api.Spec())
}

// pathParam binds a required simple-style path parameter.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter %s: %v", name, err), http.StatusBadRequest)
		return "", false
	}
	return v, true
}

// SuggestParams are the query parameters of GET /suggest.
type SuggestParams struct {
	Q     *string `form:"q,omitempty" json:"q,omitempty"`
	Limit *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

func bindSuggestParams(r *http.Request) (SuggestParams, error) {
	var p SuggestParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &p.Q); err != nil {
		return p, fmt.Errorf("invalid format for parameter q: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &p.Limit); err != nil {
		return p, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return p, nil
}
