// Package view renders the portal's server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageLogin       = "login"
	PageRegister    = "register"
	PageMyPayments  = "my_payments"
	PageAdminUpload = "admin_upload"
	PageBatches     = "batches"
	PageBatch       = "batch_detail"
	PageError       = "error"
)

// Page is the data every template receives.
type Page struct {
	AppName string
	Title   string
	User    *domain.User
	Notice  string
	Error   string
	Data    any
}

// Renderer implements echo.Renderer over the embedded templates. Each page
// is parsed together with the shared layout.
type Renderer struct {
	appName string
	pages   map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses every embedded page template.
func New(appName string) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(path.Base(layoutFile)).Funcs(Funcs()).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{appName: appName, pages: pages}, nil
}

// Render writes page name. data may be a Page, a *Page, or anything else,
// which is then passed as Page.Data.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}

	var p Page
	switch v := data.(type) {
	case Page:
		p = v
	case *Page:
		p = *v
	default:
		p = Page{Data: v}
	}
	if p.AppName == "" {
		p.AppName = r.appName
	}
	return t.ExecuteTemplate(w, "layout", p)
}
