// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"html/template"
	"net/http"

	settingsstore "github.com/dalemusser/strataroute/internal/app/store/settings"
	"github.com/dalemusser/strataroute/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, db, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Site settings (from database)
	SiteName   string
	FooterHTML template.HTML

	// Browser preferences (from session cookie)
	ThemePreference string // light, dark, "" = system
	Flashes         []uiprefs.Flash

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Security
	CSRFToken string // CSRF token for forms (use in hidden input field)
}

// globalDB is set by Init and used to load settings.
var globalDB *mongo.Database

// prefs is set by Init; nil leaves theme and flashes empty.
var prefs *uiprefs.Manager

// Init wires the database and preference manager for viewdata.
// Call this once at startup from bootstrap.
func Init(db *mongo.Database, p *uiprefs.Manager) {
	globalDB = db
	prefs = p
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - w, r: the HTTP exchange (w is needed to clear one-shot flashes)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if prefs != nil {
		vm.ThemePreference = prefs.Theme(r)
		vm.Flashes = prefs.TakeFlashes(w, r)
	}

	if globalDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		store := settingsstore.New(globalDB)
		settings, err := store.Get(ctx)
		if err == nil && settings != nil {
			vm.SiteName = settings.SiteName
			footerHTML := settings.FooterHTML
			if footerHTML == "" {
				footerHTML = models.DefaultFooterHTML
			}
			vm.FooterHTML = htmlsanitize.SanitizeToHTML(footerHTML)
		}
	}

	return vm
}

// GetSettings returns the full console settings, or defaults if not available.
func GetSettings(ctx context.Context, db *mongo.Database) models.ConsoleSettings {
	if db == nil {
		return models.DefaultConsoleSettings()
	}

	store := settingsstore.New(db)
	settings, err := store.Get(ctx)
	if err != nil || settings == nil {
		return models.DefaultConsoleSettings()
	}
	return *settings
}
