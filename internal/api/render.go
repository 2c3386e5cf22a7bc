package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/neuroscreen/portal/internal/middleware"
	"github.com/neuroscreen/portal/internal/services"
	"github.com/neuroscreen/portal/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home.html",
	"login.html",
	"register.html",
	"dashboard.html",
	"assessment.html",
	"assistant.html",
	"admin.html",
	"question_form.html",
	"confirm.html",
	"notfound.html",
}

var templateFuncs = template.FuncMap{
	"t":        utils.T,
	"tf":       func(locale, key string, args ...any) string { return fmt.Sprintf(utils.T(locale, key), args...) },
	"add":      func(a, b int) int { return a + b },
	"join":     strings.Join,
	"score":    formatScore,
	"chart":    barChart,
	"markdown": renderMarkdown,
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// view is what the layout receives; Data is the page-specific part.
type view struct {
	Title  string
	Nav    string
	Locale string
	User   *services.User
	Flash  *flash
	CSRF   template.HTML
	Data   any
}

func (rt *Router) render(w http.ResponseWriter, r *http.Request, status int, name, nav, title string, data any) {
	rt.renderFlash(w, r, status, name, nav, title, data, nil)
}

// renderFlash renders with f as the notification instead of the pending
// cookie flash; used when a form is re-rendered in the same request.
func (rt *Router) renderFlash(w http.ResponseWriter, r *http.Request, status int, name, nav, title string, data any, f *flash) {
	tpl, ok := rt.pages[name]
	if !ok {
		log.Printf("render: unknown page %s", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	v := view{
		Title:  title,
		Nav:    nav,
		Locale: middleware.LocaleFromContext(r.Context()),
		User:   middleware.SessionFromContext(r.Context()).CurrentUser(),
		Flash:  f,
		CSRF:   csrf.TemplateField(r),
		Data:   data,
	}
	if v.Flash == nil {
		v.Flash = popFlash(w, r)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
