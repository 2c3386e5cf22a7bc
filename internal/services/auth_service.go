package services

import (
	"context"
	"strings"
)

const (
	MsgLoginFailed    = "Login failed."
	MsgRegisterFailed = "Registration failed."
	MsgLoggedIn       = "Logged in successfully!"
	MsgRegistered     = "Registered successfully!"
	MsgLoggedOut      = "Logged out."
)

// AuthClient is the backend's authentication API.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, name, email, password string) (*User, error)
}

// SessionReader is the read capability guards and pages get.
type SessionReader interface {
	// Loaded is false while the stored session could not be restored.
	Loaded() bool
	CurrentUser() *User
}

// SessionWriter is the update capability; only AuthService uses it.
type SessionWriter interface {
	SetUser(ctx context.Context, u *User) error
	Clear(ctx context.Context) error
}

type AuthService struct {
	client AuthClient
}

func NewAuthService(client AuthClient) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, sess SessionWriter, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, remoteError(err, MsgLoginFailed, true)
	}
	return s.store(ctx, sess, u, MsgLoginFailed)
}

func (s *AuthService) Register(ctx context.Context, sess SessionWriter, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("name/email/password required")
	}
	u, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, remoteError(err, MsgRegisterFailed, true)
	}
	return s.store(ctx, sess, u, MsgRegisterFailed)
}

func (s *AuthService) store(ctx context.Context, sess SessionWriter, u *User, fallback string) (*User, error) {
	if u == nil || strings.TrimSpace(u.Token) == "" {
		return nil, NewBadGatewayError(fallback)
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if err := sess.SetUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sess SessionWriter) error {
	return sess.Clear(ctx)
}
