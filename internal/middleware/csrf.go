package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

const CSRFCookieName = "neuroscreen_csrf"

// CSRF protects every unsafe request with gorilla/csrf. Without secure
// cookies the portal is served over plain HTTP, and requests are marked as
// such so the origin check does not demand an https Referer.
func CSRF(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName(CSRFCookieName),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
