// internal/app/features/apikeys/types.go
package apikeysfeature

import (
	"github.com/dalemusser/strataroute/internal/app/system/formutil"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
)

// APIKeyVM is the view model for a single API key.
type APIKeyVM struct {
	ID           string
	Prefix       string
	Name         string
	Description  string
	Status       string
	RequestCount int64
	LastUsedAt   string
	CreatedAt    string
	RevokedAt    string
	IsActive     bool
}

// APIKeyListVM is the view model for the API keys list page.
type APIKeyListVM struct {
	viewdata.BaseVM
	Keys []APIKeyVM
}

// APIKeyFormVM is the view model for API key create/edit forms.
type APIKeyFormVM struct {
	formutil.Base
	ID          string
	Name        string
	Description string
	IsEdit      bool
	IsActive    bool
}

// APIKeyCreatedVM is the view model shown after creating an API key.
// Secret is the full key value, displayed exactly once.
type APIKeyCreatedVM struct {
	viewdata.BaseVM
	Key    APIKeyVM
	Secret string
}

// APIKeyDetailVM is the view model for the API key detail page.
type APIKeyDetailVM struct {
	viewdata.BaseVM
	Key APIKeyVM
}

func toAPIKeyVM(k upstream.APIKey) APIKeyVM {
	vm := APIKeyVM{
		ID:           k.ID,
		Prefix:       k.Prefix,
		Name:         k.Name,
		Description:  k.Description,
		Status:       k.Status,
		RequestCount: k.RequestCount,
		CreatedAt:    k.CreatedAt.Format("2006-01-02 15:04"),
		IsActive:     k.Status == upstream.KeyStatusActive,
	}

	if k.LastUsedAt != nil {
		vm.LastUsedAt = k.LastUsedAt.Format("2006-01-02 15:04")
	}
	if k.RevokedAt != nil {
		vm.RevokedAt = k.RevokedAt.Format("2006-01-02 15:04")
	}

	return vm
}
