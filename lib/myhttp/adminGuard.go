package myhttp

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/phoneloom/lib/mycontext"
	"github.com/MarcGrol/phoneloom/lib/myerrors"
	"github.com/MarcGrol/phoneloom/lib/mylog"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminGuard only lets requests through that carry the configured admin key.
// Identity and roles are established upstream; an empty key rejects everything.
func AdminGuard(adminKey string, logger mylog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(AdminKeyHeader)
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(given), []byte(adminKey)) != 1 {
				c := mycontext.ContextFromHTTPRequest(r)
				NewWriter(logger).WriteError(c, w, 0, myerrors.NewAuthenticationError(fmt.Errorf("admin access required for %s %s", r.Method, r.URL.Path)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
