package middleware

import (
	"net/http"

	"github.com/neuroscreen/portal/internal/services"
	"github.com/neuroscreen/portal/internal/utils"
)

type Decision int

const (
	Allow Decision = iota
	Wait
	RedirectLogin
	RedirectDashboard
)

type Gate int

const (
	GateAuthenticated Gate = iota
	GateAdmin
	GateGuestOnly
)

// Evaluate decides access for a gate from the session's loaded flag and user.
func Evaluate(g Gate, loaded bool, u *services.User) Decision {
	if !loaded {
		return Wait
	}
	switch g {
	case GateAdmin:
		if u == nil || !u.IsAdmin() {
			return RedirectDashboard
		}
	case GateAuthenticated:
		if u == nil {
			return RedirectLogin
		}
	case GateGuestOnly:
		if u != nil {
			return RedirectDashboard
		}
	}
	return Allow
}

func guard(g Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		switch Evaluate(g, s.Loaded(), s.CurrentUser()) {
		case Allow:
			next.ServeHTTP(w, r)
		case Wait:
			writeLoading(w, r)
		case RedirectLogin:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case RedirectDashboard:
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		}
	})
}

func RequireAuth(next http.Handler) http.Handler  { return guard(GateAuthenticated, next) }
func RequireAdmin(next http.Handler) http.Handler { return guard(GateAdmin, next) }
func GuestOnly(next http.Handler) http.Handler    { return guard(GateGuestOnly, next) }

func writeLoading(w http.ResponseWriter, r *http.Request) {
	msg := utils.T(LocaleFromContext(r.Context()), "loading")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "2")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`<!doctype html><html><head><meta http-equiv="refresh" content="2"><title>NeuroScreen</title></head><body><p>` + msg + `</p></body></html>`))
}
