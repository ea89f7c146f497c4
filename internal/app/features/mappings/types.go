// internal/app/features/mappings/types.go
package mappings

import (
	"github.com/dalemusser/strataroute/internal/app/system/formutil"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
)

// MappingVM is the view model for a single model mapping.
type MappingVM struct {
	ID           string
	Alias        string
	ProviderID   string
	ProviderName string
	TargetModel  string
	Priority     int
	Enabled      bool
	UpdatedAt    string
}

// ProviderOption is one entry in the provider dropdown.
type ProviderOption struct {
	ID       string
	Name     string
	Selected bool
}

// ListVM is the mapping list page.
type ListVM struct {
	viewdata.BaseVM
	Mappings []MappingVM
}

// FormVM is the create/edit form.
type FormVM struct {
	formutil.Base
	ID          string
	Alias       string
	ProviderID  string
	TargetModel string
	Priority    int
	Enabled     bool
	Providers   []ProviderOption
	IsEdit      bool
}

func toMappingVM(m upstream.Mapping, providerNames map[string]string) MappingVM {
	vm := MappingVM{
		ID:           m.ID,
		Alias:        m.Alias,
		ProviderID:   m.ProviderID,
		ProviderName: providerNames[m.ProviderID],
		TargetModel:  m.TargetModel,
		Priority:     m.Priority,
		Enabled:      m.Enabled,
		UpdatedAt:    m.UpdatedAt.Format("2006-01-02 15:04"),
	}
	if vm.ProviderName == "" {
		vm.ProviderName = m.ProviderID
	}
	return vm
}
