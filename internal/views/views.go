// Package views holds the server-rendered HTML templates.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"study/internal/forms"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// New returns a template engine over the embedded templates.
func New() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("fieldError", func(errs forms.FieldErrors, field string) string {
		return errs[field]
	})
	return engine
}
