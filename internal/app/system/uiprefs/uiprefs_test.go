// internal/app/system/uiprefs/uiprefs_test.go
package uiprefs

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newManager() *Manager {
	return New([]byte("0123456789abcdef0123456789abcdef"), false, nil)
}

// carryCookies copies Set-Cookie headers from a response onto a fresh
// request. The last write per cookie name wins, as in a real browser.
func carryCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	latest := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := latest[c.Name]; !seen {
			order = append(order, c.Name)
		}
		latest[c.Name] = c
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, name := range order {
		req.AddCookie(latest[name])
	}
	return req
}

func TestThemeRoundTrip(t *testing.T) {
	m := newManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	if err := m.SetTheme(rec, req, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	next := carryCookies(t, rec, "/")
	if got := m.Theme(next); got != ThemeDark {
		t.Errorf("Theme() = %q, want dark", got)
	}
}

func TestSetThemeUnknownClears(t *testing.T) {
	m := newManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	if err := m.SetTheme(rec, req, ThemeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	rec2 := httptest.NewRecorder()
	req2 := carryCookies(t, rec, "/theme")
	if err := m.SetTheme(rec2, req2, "sparkly"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	next := carryCookies(t, rec2, "/")
	if got := m.Theme(next); got != "" {
		t.Errorf("Theme() after clearing = %q, want empty", got)
	}
}

func TestThemeDefaultsEmpty(t *testing.T) {
	m := newManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := m.Theme(req); got != "" {
		t.Errorf("Theme() with no cookie = %q, want empty", got)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	m := newManager()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/providers", nil)
	m.Success(rec, req, "provider created")
	m.Error(rec, req, "mapping rejected")

	rec2 := httptest.NewRecorder()
	next := carryCookies(t, rec, "/providers")
	flashes := m.TakeFlashes(rec2, next)
	if len(flashes) != 2 {
		t.Fatalf("TakeFlashes() returned %d, want 2", len(flashes))
	}
	if flashes[0].Kind != "success" || flashes[0].Message != "provider created" {
		t.Errorf("first flash = %+v", flashes[0])
	}
	if flashes[1].Kind != "error" || flashes[1].Message != "mapping rejected" {
		t.Errorf("second flash = %+v", flashes[1])
	}

	// Flashes are one-shot.
	rec3 := httptest.NewRecorder()
	again := carryCookies(t, rec2, "/providers")
	if left := m.TakeFlashes(rec3, again); len(left) != 0 {
		t.Errorf("flashes not cleared: %+v", left)
	}
}

func TestTamperedCookieYieldsFreshSession(t *testing.T) {
	m := newManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "strataroute_console", Value: "garbage"})

	if got := m.Theme(req); got != "" {
		t.Errorf("Theme() from tampered cookie = %q, want empty", got)
	}
}
