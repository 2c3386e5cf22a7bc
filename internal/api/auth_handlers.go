package api

import (
	"log"
	"net/http"

	"github.com/neuroscreen/portal/internal/middleware"
	"github.com/neuroscreen/portal/internal/services"
)

type credentialsForm struct {
	Name  string
	Email string
}

func (rt *Router) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "login.html", "", "Login", credentialsForm{})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	email, password := r.PostFormValue("email"), r.PostFormValue("password")
	sess := middleware.SessionFromContext(r.Context())
	if _, err := rt.auth.Login(r.Context(), sess, email, password); err != nil {
		rt.authFailed(w, r, "login.html", "Login", credentialsForm{Email: email}, err, services.MsgLoginFailed)
		return
	}
	redirectWithFlash(w, r, "/dashboard", flashSuccess, services.MsgLoggedIn)
}

func (rt *Router) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, http.StatusOK, "register.html", "", "Register", credentialsForm{})
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	name, email, password := r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("password")
	sess := middleware.SessionFromContext(r.Context())
	if _, err := rt.auth.Register(r.Context(), sess, name, email, password); err != nil {
		rt.authFailed(w, r, "register.html", "Register", credentialsForm{Name: name, Email: email}, err, services.MsgRegisterFailed)
		return
	}
	redirectWithFlash(w, r, "/dashboard", flashSuccess, services.MsgRegistered)
}

// authFailed re-renders the form with the error; the password is never echoed.
func (rt *Router) authFailed(w http.ResponseWriter, r *http.Request, page, title string, form credentialsForm, err error, fallback string) {
	msg := fallback
	status := http.StatusBadGateway
	if se, ok := services.AsServiceError(err); ok {
		msg = se.Message
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized, services.ErrorForbidden:
			status = http.StatusUnauthorized
		case services.ErrorConflict:
			status = http.StatusConflict
		}
	} else {
		log.Printf("api: %s: %v", r.URL.Path, err)
		status = http.StatusInternalServerError
	}
	rt.renderFlash(w, r, status, page, "", title, form, &flash{Kind: flashError, Message: msg})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	rt.endSession(w, r)
	redirectWithFlash(w, r, "/login", flashInfo, services.MsgLoggedOut)
}

func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := services.NewDashboardService(rt.clientFor(r)).Summary(r.Context())
	if err != nil {
		rt.fail(w, r, err, "/")
		return
	}
	rt.render(w, r, http.StatusOK, "dashboard.html", "dashboard", "Dashboard", summary)
}
