// Package api serves the NeuroScreen pages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/neuroscreen/portal/internal/backend"
	"github.com/neuroscreen/portal/internal/db"
	"github.com/neuroscreen/portal/internal/metrics"
	"github.com/neuroscreen/portal/internal/middleware"
	"github.com/neuroscreen/portal/internal/services"
	"github.com/neuroscreen/portal/internal/utils"
)

const MsgSessionExpired = "Your session has expired. Please log in again."

type Config struct {
	Backend   *backend.Client
	Generator services.Generator
	Store     db.SessionStore
	Metrics   *metrics.Metrics
	Commit    string
	BuildTime string
	StaticDir string
}

type Router struct {
	backend   *backend.Client
	store     db.SessionStore
	metrics   *metrics.Metrics
	auth      *services.AuthService
	assistant *services.AssistantService
	state     *stateRegistry
	pages     map[string]*template.Template
	commit    string
	buildTime string
	staticDir string
}

func NewRouter(cfg Config) (*Router, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend client required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewMetrics()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	client := cfg.Backend.WithMetrics(cfg.Metrics)
	return &Router{
		backend:   client,
		store:     cfg.Store,
		metrics:   cfg.Metrics,
		auth:      services.NewAuthService(client),
		assistant: services.NewAssistantService(cfg.Generator),
		state:     newStateRegistry(),
		pages:     pages,
		commit:    cfg.Commit,
		buildTime: cfg.BuildTime,
		staticDir: cfg.StaticDir,
	}, nil
}

func (rt *Router) Register(mux *http.ServeMux) {
	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }
	guest := func(h http.HandlerFunc) http.Handler { return middleware.GuestOnly(h) }

	mux.HandleFunc("GET /{$}", rt.handleHome)
	mux.Handle("GET /login", guest(rt.handleLoginPage))
	mux.Handle("POST /login", guest(rt.handleLogin))
	mux.Handle("GET /register", guest(rt.handleRegisterPage))
	mux.Handle("POST /register", guest(rt.handleRegister))
	mux.HandleFunc("POST /logout", rt.handleLogout)

	mux.Handle("GET /dashboard", auth(rt.handleDashboard))
	mux.Handle("GET /dashboard/export.csv", auth(rt.handleResultsExport))

	mux.Handle("GET /assessment", auth(rt.handleAssessmentPage))
	mux.Handle("POST /assessment", auth(rt.handleAssessmentStep))
	mux.Handle("POST /assessment/reset", auth(rt.handleAssessmentReset))

	mux.Handle("GET /ai-assistant", auth(rt.handleAssistantPage))
	mux.Handle("POST /ai-assistant", auth(rt.handleAssistantSend))
	mux.Handle("POST /ai-assistant/reset", auth(rt.handleAssistantReset))

	mux.Handle("GET /admin", admin(rt.handleAdmin))
	mux.Handle("GET /admin/questions.csv", admin(rt.handleQuestionsExport))
	mux.Handle("GET /admin/questions/new", admin(rt.handleQuestionNew))
	mux.Handle("POST /admin/questions", admin(rt.handleQuestionCreate))
	mux.Handle("GET /admin/questions/{id}/edit", admin(rt.handleQuestionEdit))
	mux.Handle("POST /admin/questions/{id}", admin(rt.handleQuestionUpdate))
	mux.Handle("GET /admin/questions/{id}/delete", admin(rt.handleQuestionDeleteConfirm))
	mux.Handle("POST /admin/questions/{id}/delete", admin(rt.handleQuestionDelete))
	mux.Handle("GET /admin/users/{id}/edit", admin(rt.handleUserEdit))
	mux.Handle("GET /admin/users/{id}/delete", admin(rt.handleUserDeleteConfirm))
	mux.Handle("POST /admin/users/{id}/delete", admin(rt.handleUserDelete))

	mux.HandleFunc("GET /health", rt.handleHealth)
	mux.HandleFunc("GET /version", rt.handleVersion)
	mux.HandleFunc("GET /metrics", rt.handleMetrics)

	if rt.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(rt.staticDir))))
	}
	mux.HandleFunc("/", rt.handleNotFound)
}

// clientFor returns a backend client that authenticates as the visitor.
func (rt *Router) clientFor(r *http.Request) *backend.Client {
	if u := middleware.SessionFromContext(r.Context()).CurrentUser(); u != nil {
		return rt.backend.WithToken(u.Token)
	}
	return rt.backend
}

func sessionID(r *http.Request) string {
	return middleware.SessionFromContext(r.Context()).ID()
}

// fail turns a service error into a flash and a redirect. A rejected bearer
// token ends the session.
func (rt *Router) fail(w http.ResponseWriter, r *http.Request, err error, to string) {
	if se, ok := services.AsServiceError(err); ok {
		if se.Code == services.ErrorUnauthorized {
			rt.endSession(w, r)
			redirectWithFlash(w, r, "/login", flashError, MsgSessionExpired)
			return
		}
		redirectWithFlash(w, r, to, flashError, se.Message)
		return
	}
	log.Printf("api: %s %s: %v", r.Method, r.URL.Path, err)
	redirectWithFlash(w, r, to, flashError, "Something went wrong. Please try again.")
}

func (rt *Router) endSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sid := sess.ID(); sid != "" {
		rt.state.drop(sid)
	}
	if err := rt.auth.Logout(r.Context(), sess); err != nil {
		log.Printf("api: end session: %v", err)
	}
}

// RunJanitor evicts idle per-session state and expired session records
// every interval until ctx is done.
func (rt *Router) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			rt.sweep(ctx, now, idle)
		}
	}
}

func (rt *Router) sweep(ctx context.Context, now time.Time, idle time.Duration) {
	if n := rt.state.cleanupBefore(now.Add(-idle)); n > 0 {
		log.Printf("janitor: evicted %d idle visitor states", n)
	}
	if rt.store == nil {
		return
	}
	if n, err := rt.store.DeleteExpired(ctx, now); err != nil {
		log.Printf("janitor: delete expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("janitor: deleted %d expired sessions", n)
	}
}

func (rt *Router) handleHome(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "home.html", "home", "", nil)
}

func (rt *Router) handleNotFound(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusNotFound, "notfound.html", "", "Not found", nil)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, map[string]any{
		"ok":         true,
		"name":       "NeuroScreen",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func (rt *Router) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		metrics.Snapshot
		ActiveVisitors int `json:"active_visitors"`
	}{rt.metrics.GetSnapshot(), rt.state.len()})
}
