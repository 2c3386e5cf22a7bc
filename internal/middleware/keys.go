package middleware

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	infoSessionKey = "neuroscreen/session-cookie/v1"
	infoCSRFKey    = "neuroscreen/csrf/v1"
)

// Keys are the purpose-specific keys derived from the configured secret.
type Keys struct {
	Session []byte
	CSRF    []byte
}

func DeriveKeys(secret string) (Keys, error) {
	if len(secret) < 16 {
		return Keys{}, errors.New("session secret too short")
	}
	s, err := deriveKey([]byte(secret), infoSessionKey)
	if err != nil {
		return Keys{}, err
	}
	c, err := deriveKey([]byte(secret), infoCSRFKey)
	if err != nil {
		return Keys{}, err
	}
	return Keys{Session: s, CSRF: c}, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	out := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), out); err != nil {
		return nil, err
	}
	return out, nil
}
