// Package view renders the HTML pages from templates embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/profile"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Page names.
const (
	Auth      = "auth.html"
	Dashboard = "dashboard.html"
	Edit      = "edit.html"
	Public    = "public.html"
	NotFound  = "notfound.html"
	Error     = "error.html"
)

// ExecuteFunc matches (*template.Template).ExecuteTemplate.
type ExecuteFunc func(w io.Writer, name string, data any) error

// Parse loads every embedded page.
func Parse() (ExecuteFunc, error) {
	tmpl, err := template.New("").ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl.ExecuteTemplate, nil
}

// Renderer writes pages to responses.
type Renderer struct {
	exec ExecuteFunc
	log  logger.Logger
}

func NewRenderer(exec ExecuteFunc, log logger.Logger) *Renderer {
	return &Renderer{exec: exec, log: log}
}

// Render executes page into a buffer first, so a template error never
// leaves a half-written response behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := r.exec(&buf, page, data); err != nil {
		r.log.Error("failed to render template", logger.String("page", page), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// PageFor is the page shown for a dashboard state.
func PageFor(s profile.State) string {
	switch s {
	case profile.Viewing:
		return Dashboard
	case profile.Editing:
		return Edit
	default:
		return Auth
	}
}

// Message renders the not-found or error page with text.
func (r *Renderer) Message(w http.ResponseWriter, status int, page, text string) {
	r.Render(w, status, page, MessagePage{Message: text})
}

type AuthPage struct {
	SignUp bool
	Email  string
	Error  string
	Notice string
}

type DashboardPage struct {
	Profile  domain.Profile
	Links    []domain.LinkView
	ShareURL string
}

type EditPage struct {
	Profile domain.Profile
	Links   []domain.LinkView
	Error   string
}

type PublicPage struct {
	Profile domain.Profile
	Links   []domain.Link
}

type MessagePage struct {
	Message string
}
