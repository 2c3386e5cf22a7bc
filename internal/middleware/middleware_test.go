package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neuroscreen/portal/internal/db"
	"github.com/neuroscreen/portal/internal/services"
)

func TestEvaluate(t *testing.T) {
	user := &services.User{ID: "u", Role: services.RoleUser}
	admin := &services.User{ID: "a", Role: services.RoleAdmin}
	cases := []struct {
		gate   Gate
		loaded bool
		u      *services.User
		want   Decision
	}{
		{GateAuthenticated, false, admin, Wait},
		{GateAuthenticated, true, nil, RedirectLogin},
		{GateAuthenticated, true, user, Allow},
		{GateAdmin, true, nil, RedirectDashboard},
		{GateAdmin, true, user, RedirectDashboard},
		{GateAdmin, true, admin, Allow},
		{GateGuestOnly, true, user, RedirectDashboard},
		{GateGuestOnly, true, nil, Allow},
	}
	for i, c := range cases {
		if got := Evaluate(c.gate, c.loaded, c.u); got != c.want {
			t.Fatalf("case %d: got %v want %v", i, got, c.want)
		}
	}
}

func testManager(store db.SessionStore) *SessionManager {
	keys, _ := DeriveKeys("test-secret-0123456789")
	m := NewSessionManager(store, keys.Session, time.Hour, false)
	n := 0
	m.newID = func() string { n++; return "sid-" + string(rune('0'+n)) }
	return m
}

func TestSessionLoginRestoreLogout(t *testing.T) {
	store := db.NewMemoryStore()
	m := testManager(store)

	login := m.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		if err := s.SetUser(r.Context(), &services.User{ID: "u1", Name: "A", Role: services.RoleAdmin, Token: "T"}); err != nil {
			t.Fatalf("SetUser: %v", err)
		}
	}))
	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	var seen *services.User
	var sid string
	page := m.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromContext(r.Context())
		seen, sid = s.CurrentUser(), s.ID()
		if r.URL.Path == "/logout" {
			_ = s.Clear(r.Context())
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	page.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != "u1" || sid != "sid-1" {
		t.Fatalf("session not restored: %+v sid=%q", seen, sid)
	}

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookies[0])
	page.ServeHTTP(httptest.NewRecorder(), req)
	if _, err := store.GetSession(context.Background(), "sid-1"); !errors.Is(err, db.ErrSessionNotFound) {
		t.Fatalf("record should be gone after logout: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	page.ServeHTTP(httptest.NewRecorder(), req)
	if seen != nil {
		t.Fatalf("stale cookie must not restore a user")
	}
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	m := testManager(db.NewMemoryStore())
	other, _ := DeriveKeys("another-secret-abcdef")
	forged := NewSessionManager(db.NewMemoryStore(), other.Session, time.Hour, false)
	tok, _ := forged.signToken("sid-1", time.Now())

	var s *Session
	h := m.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s = SessionFromContext(r.Context()) }))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !s.Loaded() || s.CurrentUser() != nil {
		t.Fatalf("forged cookie should yield an anonymous session")
	}
}

type brokenStore struct{ db.MemoryStore }

func (brokenStore) GetSession(context.Context, string) (*db.SessionRecord, error) {
	return nil, errors.New("database is locked")
}

func TestGuardWaitsWhenStoreUnavailable(t *testing.T) {
	good := testManager(db.NewMemoryStore())
	tok, _ := good.signToken("sid-9", time.Now())
	m := testManager(&brokenStore{})

	h := m.WithSession(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run while session is unresolved")
	})))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected loading page, got %d", rec.Code)
	}
}

func TestGuardRedirects(t *testing.T) {
	m := testManager(db.NewMemoryStore())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	for path, h := range map[string]http.Handler{
		"/login":     m.WithSession(RequireAuth(ok)),
		"/dashboard": m.WithSession(RequireAdmin(ok)),
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != path {
			t.Fatalf("want redirect to %s, got %d %s", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestDeriveKeysDistinct(t *testing.T) {
	k, err := DeriveKeys("0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}
	if len(k.Session) != 32 || len(k.CSRF) != 32 || string(k.Session) == string(k.CSRF) {
		t.Fatalf("keys should be 32 bytes and distinct")
	}
	if _, err := DeriveKeys("short"); err == nil {
		t.Fatalf("short secret accepted")
	}
}

func TestLocaleMiddleware(t *testing.T) {
	var got string
	h := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = LocaleFromContext(r.Context()) }))
	req := httptest.NewRequest(http.MethodGet, "/?lang=hi", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "hi" {
		t.Fatalf("want hi, got %s", got)
	}
}
