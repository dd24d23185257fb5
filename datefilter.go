package doxs

import (
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/alnah/go-doxs/internal/dateutil"
)

// DateFilterName is the template filter installed by DateExtension.
const DateFilterName = "datefmt"

// DateExtension adds the datefmt filter. It formats dates with the
// YYYY/MM/DD token syntax or a preset name ("iso", "long", ...):
//
//	{{ published|datefmt:"long" }}
//	{{ "auto"|datefmt }}
type DateExtension struct{}

// Capability implements AddOn.
func (DateExtension) Capability() Capability { return CapabilityTemplate }

// Tags implements TemplateExtension.
func (DateExtension) Tags() map[string]pongo2.TagParser { return nil }

// Filters implements TemplateExtension.
func (DateExtension) Filters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{DateFilterName: filterDate}
}

func filterDate(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var format string
	if param != nil && !param.IsNil() {
		format = param.String()
	}

	out, err := dateutil.FormatValue(in.Interface(), format, time.Now())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:" + DateFilterName, OrigError: err}
	}
	return pongo2.AsValue(out), nil
}

var _ TemplateExtension = DateExtension{}
