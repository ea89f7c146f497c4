// internal/app/features/mappings/templates.go
package mappings

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "mappings",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
