// internal/app/features/providers/types.go
package providers

import (
	"strings"

	"github.com/dalemusser/strataroute/internal/app/system/formutil"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
)

// ProviderVM is the view model for a single provider.
type ProviderVM struct {
	ID        string
	Name      string
	Type      string
	BaseURL   string
	Enabled   bool
	Models    string
	CreatedAt string
	UpdatedAt string
}

// ListVM is the provider list page.
type ListVM struct {
	viewdata.BaseVM
	Providers []ProviderVM
}

// FormVM is the create/edit form. Field values survive a failed validation.
type FormVM struct {
	formutil.Base
	ID      string
	Name    string
	Type    string
	BaseURL string
	APIKey  string
	Enabled bool
	IsEdit  bool
}

// DetailVM is the provider detail page.
type DetailVM struct {
	viewdata.BaseVM
	Provider ProviderVM
}

func toProviderVM(p upstream.Provider) ProviderVM {
	return ProviderVM{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		BaseURL:   p.BaseURL,
		Enabled:   p.Enabled,
		Models:    strings.Join(p.Models, ", "),
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02 15:04"),
	}
}
