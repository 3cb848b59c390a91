package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRoutePatternOrPath keeps metric label cardinality bounded: /api/products/{id}
// instead of one series per id. Requests outside a chi router fall back to the path.
func ChiRoutePatternOrPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if rp := rctx.RoutePattern(); rp != "" {
			return rp
		}
	}
	return r.URL.Path
}
