package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/neuroscreen/portal/internal/db"
	"github.com/neuroscreen/portal/internal/services"
)

const SessionCookieName = "neuroscreen_session"

type authCtxKey int

const sessionKey authCtxKey = 7

// Claims carry only the session id; the user lives in the session store.
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

type SessionManager struct {
	store  db.SessionStore
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
	newID  func() string
}

func NewSessionManager(store db.SessionStore, key []byte, ttl time.Duration, secureCookie bool) *SessionManager {
	return &SessionManager{
		store:  store,
		key:    key,
		ttl:    ttl,
		secure: secureCookie,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (m *SessionManager) signToken(sid string, now time.Time) (string, error) {
	claims := Claims{SID: sid, RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *SessionManager) parseToken(tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.SID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Session is the per-request view of the visitor's login. It implements
// services.SessionReader and services.SessionWriter.
type Session struct {
	m      *SessionManager
	w      http.ResponseWriter
	id     string
	user   *services.User
	loaded bool
}

func (s *Session) Loaded() bool { return s.loaded }

func (s *Session) CurrentUser() *services.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ID is the server-side session id, empty for anonymous visitors.
func (s *Session) ID() string { return s.id }

// SetUser starts a fresh session for u, replacing any previous one.
func (s *Session) SetUser(ctx context.Context, u *services.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	now := s.m.now()
	rec := db.SessionRecord{ID: s.m.newID(), User: *u, CreatedAt: now, ExpiresAt: now.Add(s.m.ttl)}
	if err := s.m.store.SaveSession(ctx, rec); err != nil {
		return err
	}
	tok, err := s.m.signToken(rec.ID, now)
	if err != nil {
		_ = s.m.store.DeleteSession(ctx, rec.ID)
		return err
	}
	if s.id != "" {
		if err := s.m.store.DeleteSession(ctx, s.id); err != nil {
			log.Printf("session: drop previous %s: %v", s.id, err)
		}
	}
	http.SetCookie(s.w, s.m.cookie(tok, int(s.m.ttl/time.Second)))
	s.id, s.user, s.loaded = rec.ID, &rec.User, true
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	var err error
	if s.id != "" {
		err = s.m.store.DeleteSession(ctx, s.id)
	}
	http.SetCookie(s.w, s.m.cookie("", -1))
	s.id, s.user, s.loaded = "", nil, true
	return err
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// WithSession restores the visitor's session and attaches it to the request
// context. A store failure leaves the session unloaded rather than anonymous.
func (m *SessionManager) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := &Session{m: m, w: w, loaded: true}
		if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
			claims, err := m.parseToken(c.Value)
			if err != nil {
				http.SetCookie(w, m.cookie("", -1))
			} else {
				rec, err := m.store.GetSession(r.Context(), claims.SID)
				switch {
				case err == nil:
					sess.id, sess.user = rec.ID, &rec.User
				case errors.Is(err, db.ErrSessionNotFound):
					http.SetCookie(w, m.cookie("", -1))
				default:
					log.Printf("session: restore %s: %v", claims.SID, err)
					sess.id, sess.loaded = claims.SID, false
				}
			}
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session attached by WithSession, or an
// anonymous loaded session when none is present.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return &Session{loaded: true}
}

var (
	_ services.SessionReader = (*Session)(nil)
	_ services.SessionWriter = (*Session)(nil)
)
