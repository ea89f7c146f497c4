// internal/app/system/uiprefs/uiprefs.go
//
// Package uiprefs keeps per-browser console preferences in a cookie
// session: the theme choice and one-shot flash messages shown after
// redirects. The console has no user accounts, so this is the only
// session state it carries.
package uiprefs

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionName = "strataroute_console"

	keyTheme = "theme"
	keyFlash = "flash"
)

// Theme values stored in the session. Empty means follow the system.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Flash is a one-shot message rendered on the next page load.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Manager wraps the cookie store.
type Manager struct {
	store *sessions.CookieStore
	log   *zap.Logger
}

// New creates a Manager. hashKey signs the cookie; secure controls the
// Secure cookie attribute (false for plain-HTTP development).
func New(hashKey []byte, secure bool, log *zap.Logger) *Manager {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log}
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	// Get never fails for cookie stores beyond decode errors, and a
	// decode error yields a fresh session, which is what we want.
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		m.log.Debug("session cookie reset", zap.Error(err))
	}
	return s
}

// Theme returns the stored theme preference, or "" for system default.
func (m *Manager) Theme(r *http.Request) string {
	s := m.session(r)
	if v, ok := s.Values[keyTheme].(string); ok {
		return v
	}
	return ""
}

// SetTheme stores the theme preference. Unknown values clear it.
func (m *Manager) SetTheme(w http.ResponseWriter, r *http.Request, theme string) error {
	s := m.session(r)
	switch theme {
	case ThemeLight, ThemeDark:
		s.Values[keyTheme] = theme
	default:
		delete(s.Values, keyTheme)
	}
	return s.Save(r, w)
}

// AddFlash queues a message for the next page load.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := m.session(r)
	s.AddFlash(kind+"\x00"+message, keyFlash)
	if err := s.Save(r, w); err != nil {
		m.log.Warn("failed to save flash", zap.Error(err))
	}
}

// Success queues a success flash.
func (m *Manager) Success(w http.ResponseWriter, r *http.Request, message string) {
	m.AddFlash(w, r, "success", message)
}

// Error queues an error flash.
func (m *Manager) Error(w http.ResponseWriter, r *http.Request, message string) {
	m.AddFlash(w, r, "error", message)
}

// TakeFlashes returns and clears any queued flashes.
func (m *Manager) TakeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.session(r)
	raw := s.Flashes(keyFlash)
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		m.log.Warn("failed to clear flashes", zap.Error(err))
	}

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		kind, msg := "success", str
		for i := 0; i < len(str); i++ {
			if str[i] == 0 {
				kind, msg = str[:i], str[i+1:]
				break
			}
		}
		out = append(out, Flash{Kind: kind, Message: msg})
	}
	return out
}
