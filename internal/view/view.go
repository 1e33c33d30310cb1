package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"simpleblog/internal/auth"
	"simpleblog/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data every template receives.
type Page struct {
	// User is filled in by the renderer from the request identity.
	User     *auth.Authenticated
	Errors   []string
	Username string
	Posts    []model.Post
	Post     *model.Post
	IsAuthor bool
}

// Renderer renders pages wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. Each page is parsed together with
// layout.html and executed through the "layout" template.
func New() (*Renderer, error) {
	md := NewMarkdown()
	funcs := template.FuncMap{
		"userHTML": md.UserHTML,
		"date": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 15:04")
		},
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := map[string]*template.Template{}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		pages[strings.TrimSuffix(base, ".html")] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render implements echo.Renderer. data must be a Page or *Page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var page Page
	switch v := data.(type) {
	case Page:
		page = v
	case *Page:
		page = *v
	case nil:
	default:
		return fmt.Errorf("unexpected data %T for template %q", data, name)
	}
	if page.Errors == nil {
		page.Errors = []string{}
	}
	if c != nil {
		if user, ok := auth.UserOf(auth.IdentityFrom(c)); ok {
			page.User = &user
		}
	}
	return t.ExecuteTemplate(w, "layout", page)
}
