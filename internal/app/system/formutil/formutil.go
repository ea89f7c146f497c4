// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form is re-rendered with
// the user's previously entered values, an error message, and whatever
// context the form needs (provider dropdowns, etc.). Base carries the
// common fields; embed it in the form's view model.
//
// Example usage:
//
//	type newMappingData struct {
//		formutil.Base
//		Alias       string
//		TargetModel string
//	}
//
//	data := newMappingData{
//		Base:  formutil.NewBase(w, r, "Add Mapping", "/mappings"),
//		Alias: alias,
//	}
//	data.SetError("Alias is required.")
//	templates.Render(w, r, "mapping_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in
// form data structs. It embeds viewdata.BaseVM and adds the validation
// error slot.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// NewBase creates a fully populated Base for a form page.
func NewBase(w http.ResponseWriter, r *http.Request, title, backDefault string) Base {
	return Base{
		BaseVM: viewdata.NewBaseVM(w, r, title, backDefault),
	}
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
