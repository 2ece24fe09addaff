package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/deptpulse/deptpulse/internal/config"
)

// requireKey wraps next with API-key verification when auth is configured.
// With mode "none", or when no key is resolvable, requests pass through.
func requireKey(auth config.AuthConfig, next http.Handler) http.Handler {
	if auth.Mode != "apikey" {
		return next
	}
	key := auth.Key()
	if key == "" {
		return next
	}
	header := auth.EffectiveHeader()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(header)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			jsonErr(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
