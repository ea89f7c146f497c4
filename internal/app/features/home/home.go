// internal/app/features/home/home.go
package home

import (
	"net/http"

	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler serves the landing page.
type Handler struct{}

// NewHandler creates a new home Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// SectionVM is one card on the landing page.
type SectionVM struct {
	Title string
	Desc  string
	URL   string
}

type homeVM struct {
	viewdata.BaseVM
	Sections []SectionVM
}

// sections lists the console areas in nav order.
var sections = []SectionVM{
	{Title: "Dashboard", Desc: "Usage timeline, volume, and error rate for the routing proxy.", URL: "/dashboard"},
	{Title: "Providers", Desc: "Upstream LLM providers the proxy routes to.", URL: "/providers"},
	{Title: "Model Mappings", Desc: "Aliases that map requested model names to provider models.", URL: "/mappings"},
	{Title: "API Keys", Desc: "Keys clients use to call the proxy.", URL: "/api-keys"},
	{Title: "Request Logs", Desc: "Per-request history with filtering and CSV export.", URL: "/request-logs"},
	{Title: "Audit Log", Desc: "Who changed what, and when.", URL: "/audit-log"},
	{Title: "Settings", Desc: "Console presentation, timezone, and retention.", URL: "/settings"},
	{Title: "Status", Desc: "Connectivity, uptime, and effective configuration.", URL: "/status"},
}

// ServeIndex handles GET / - the landing page. It is registered
// directly on the root router, not mounted, so unknown paths still hit
// the router's NotFound handler.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data := homeVM{
		BaseVM:   viewdata.NewBaseVM(w, r, "Home", ""),
		Sections: sections,
	}
	templates.Render(w, r, "home/index", data)
}
