// Package web bundles the server-rendered views. Templates are embedded so
// the binary and the test suites render the same markup regardless of the
// working directory.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var views embed.FS

// MainLayout wraps every rendered page.
const MainLayout = "layouts/main"

// NewEngine returns the html/template engine over the embedded views.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
