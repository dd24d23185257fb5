package doxs

import (
	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-doxs/internal/tmpl"
)

// SwitchExtension adds the switch tag to the template engine:
//
//	{% switch value %}
//	{% case "a" %}...
//	{% case "b" or "c" %}...
//	{% default %}...
//	{% endswitch %}
//
// The first matching case renders; there is no fall-through.
type SwitchExtension struct{}

// Capability implements AddOn.
func (SwitchExtension) Capability() Capability { return CapabilityTemplate }

// Tags implements TemplateExtension.
func (SwitchExtension) Tags() map[string]pongo2.TagParser {
	return map[string]pongo2.TagParser{tmpl.SwitchTagName: tmpl.ParseSwitch}
}

// Filters implements TemplateExtension.
func (SwitchExtension) Filters() map[string]pongo2.FilterFunction { return nil }

var _ TemplateExtension = SwitchExtension{}
