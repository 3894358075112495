package main

import (
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/minzhangphoto/portfolio/pkg/services"
)

/*
newCatalogReadyMiddleware answers 503 for htmx fragment requests while the
startup fetch is still running. Full page loads fall through so the loading
view can render.
*/
func newCatalogReadyMiddleware(catalog services.CatalogServicer, excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			/*
			 * If this path is excluded, keep going.
			 */
			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if !catalog.Loaded() && httphelpers.IsHtmx(r) {
				w.Header().Set("Retry-After", "2")
				httphelpers.WriteText(w, http.StatusServiceUnavailable, "portfolio is still loading")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
