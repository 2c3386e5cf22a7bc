package services

import (
	"context"
	"errors"
	"testing"
)

type fakeStatusError struct {
	status int
	msg    string
}

func (e *fakeStatusError) Error() string       { return "backend: " + e.msg }
func (e *fakeStatusError) StatusCode() int     { return e.status }
func (e *fakeStatusError) UserMessage() string { return e.msg }

type authStubClient struct {
	users map[string]*User
	err   error
}

func (c *authStubClient) Login(_ context.Context, email, password string) (*User, error) {
	if c.err != nil {
		return nil, c.err
	}
	u, ok := c.users[email]
	if !ok || password != "Secret123" {
		return nil, &fakeStatusError{status: 401, msg: "Invalid email or password"}
	}
	copy := *u
	return &copy, nil
}

func (c *authStubClient) Register(_ context.Context, name, email, password string) (*User, error) {
	if c.err != nil {
		return nil, c.err
	}
	if _, ok := c.users[email]; ok {
		return nil, &fakeStatusError{status: 400, msg: "User already exists"}
	}
	u := &User{ID: "u-" + email, Name: name, Email: email, Token: "tok-" + email}
	c.users[email] = u
	copy := *u
	return &copy, nil
}

type stubSession struct {
	user    *User
	cleared int
	setErr  error
}

func (s *stubSession) Loaded() bool       { return true }
func (s *stubSession) CurrentUser() *User { return s.user }
func (s *stubSession) SetUser(_ context.Context, u *User) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.user = u
	return nil
}
func (s *stubSession) Clear(context.Context) error {
	s.user = nil
	s.cleared++
	return nil
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	client := &authStubClient{users: map[string]*User{}}
	svc := NewAuthService(client)
	sess := &stubSession{}

	u, err := svc.Register(context.Background(), sess, "Asha", "asha@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != RoleUser || sess.CurrentUser() == nil || sess.CurrentUser().Token == "" {
		t.Fatalf("session not stored: %+v", sess.user)
	}

	_, err = svc.Register(context.Background(), &stubSession{}, "Asha", "asha@example.com", "Secret123")
	se := wantCode(t, err, ErrorInvalid)
	if se.Message != "User already exists" {
		t.Fatalf("backend message should be surfaced verbatim, got %q", se.Message)
	}

	if err := svc.Logout(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	if sess.CurrentUser() != nil || sess.cleared != 1 {
		t.Fatalf("logout did not clear the session")
	}

	if _, err := svc.Login(context.Background(), sess, "asha@example.com", "Secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.CurrentUser() == nil || sess.CurrentUser().Email != "asha@example.com" {
		t.Fatalf("login did not set the session")
	}

	_, err = svc.Login(context.Background(), &stubSession{}, "asha@example.com", "wrong")
	se = wantCode(t, err, ErrorUnauthorized)
	if se.Message != "Invalid email or password" {
		t.Fatalf("unexpected message %q", se.Message)
	}
}

func TestAuthFallbackMessages(t *testing.T) {
	client := &authStubClient{users: map[string]*User{}, err: errors.New("dial tcp: refused")}
	svc := NewAuthService(client)

	_, err := svc.Login(context.Background(), &stubSession{}, "a@b.c", "pw")
	if se := wantCode(t, err, ErrorBadGateway); se.Message != MsgLoginFailed {
		t.Fatalf("unexpected login message %q", se.Message)
	}
	_, err = svc.Register(context.Background(), &stubSession{}, "A", "a@b.c", "pw")
	if se := wantCode(t, err, ErrorBadGateway); se.Message != MsgRegisterFailed {
		t.Fatalf("unexpected register message %q", se.Message)
	}

	client.err = &fakeStatusError{status: 500}
	_, err = svc.Login(context.Background(), &stubSession{}, "a@b.c", "pw")
	if se := wantCode(t, err, ErrorBadGateway); se.Message != MsgLoginFailed {
		t.Fatalf("empty backend message should fall back, got %q", se.Message)
	}
}

func TestAuthValidation(t *testing.T) {
	client := &authStubClient{users: map[string]*User{}}
	svc := NewAuthService(client)
	if _, err := svc.Login(context.Background(), &stubSession{}, "", ""); err == nil {
		t.Fatalf("expected validation error on login")
	}
	if _, err := svc.Register(context.Background(), &stubSession{}, "", "x@y.z", "pw"); err == nil {
		t.Fatalf("expected validation error on register")
	}
}

func TestAuthRejectsTokenlessUser(t *testing.T) {
	client := &authStubClient{users: map[string]*User{"a@b.c": {ID: "1", Email: "a@b.c"}}}
	sess := &stubSession{}
	_, err := NewAuthService(client).Login(context.Background(), sess, "a@b.c", "Secret123")
	wantCode(t, err, ErrorBadGateway)
	if sess.user != nil {
		t.Fatalf("session must stay empty")
	}
}
