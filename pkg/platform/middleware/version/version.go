// Package version tags requests with the API version of the matched route.
package version

import (
	"net/http"

	dErrors "lcm/pkg/domain-errors"
	"lcm/pkg/domain"
	"lcm/pkg/platform/httputil"
	"lcm/pkg/requestcontext"
)

// Header carries the version both ways: clients may pin one on the request,
// and every response echoes the version of the route that served it.
const Header = "API-Version"

// ExtractVersion sets the route's API version in the context. With chi the
// version is already decided by the route prefix:
//
//	r.Route("/v1", func(v1 chi.Router) {
//	    v1.Use(version.ExtractVersion(domain.APIVersionV1))
//	    // ... routes
//	})
//
// A request whose API-Version header names an unknown version, or one newer
// than the route, is rejected with bad_request before reaching the handler.
func ExtractVersion(v domain.APIVersion) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(Header, v.String())
			if raw := r.Header.Get(Header); raw != "" {
				requested, err := domain.ParseAPIVersion(raw)
				if err != nil {
					httputil.WriteError(w, err)
					return
				}
				if !v.IsAtLeast(requested) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
						"route "+v.String()+" cannot serve API version "+requested.String()))
					return
				}
			}
			ctx := requestcontext.WithAPIVersion(r.Context(), v)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
