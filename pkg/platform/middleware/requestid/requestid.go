// Package requestid assigns each request a unique ID for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"covera/pkg/requestcontext"
)

// Header is the response header carrying the request ID so clients can quote
// it in support requests.
const Header = "X-Request-Id"

// Middleware generates a request ID (or adopts the client-supplied one) and
// stores it in the context and response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
