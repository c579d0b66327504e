package authctx

import (
	"net/http"
	"strings"
)

// Middleware authenticates requests with a Bearer token and stores the user
// in the request context. Requests without a valid token pass through
// unauthenticated; handlers decide whether identity is required.
func Middleware(verifier *TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
