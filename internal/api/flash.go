package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "neuroscreen_flash"

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
	flashInfo    flashKind = "info"
)

// flash is a one-shot notification shown on the next rendered page.
type flash struct {
	Kind    flashKind `json:"k"`
	Message string    `json:"m"`
}

func setFlash(w http.ResponseWriter, kind flashKind, msg string) {
	b, err := json.Marshal(flash{Kind: kind, Message: msg})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f flash
	if json.Unmarshal(raw, &f) != nil || f.Message == "" {
		return nil
	}
	return &f
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, to string, kind flashKind, msg string) {
	setFlash(w, kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
