package doxs

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
)

// SanitizeOptions configures the sanitizer engine.
type SanitizeOptions struct {
	// Strict strips every tag, leaving text only.
	Strict bool

	// AllowElements and AllowAttrs widen the default user-content policy.
	// Attributes are allowed on every element.
	AllowElements []string
	AllowAttrs    []string
}

// SanitizeEngine removes unsafe HTML (scripts, event handlers, javascript:
// URLs) from the whole document. It normally runs last.
type SanitizeEngine struct {
	BaseEngine
	policy *bluemonday.Policy
}

// NewSanitizeEngine returns a sanitizer built on bluemonday's UGC policy.
// Class attributes are kept so directive and highlight output stays styled.
func NewSanitizeEngine(opts SanitizeOptions) *SanitizeEngine {
	var policy *bluemonday.Policy
	if opts.Strict {
		policy = bluemonday.StrictPolicy()
	} else {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		if len(opts.AllowElements) > 0 {
			policy.AllowElements(opts.AllowElements...)
		}
		if len(opts.AllowAttrs) > 0 {
			policy.AllowAttrs(opts.AllowAttrs...).Globally()
		}
	}

	e := &SanitizeEngine{
		BaseEngine: NewBaseEngine("sanitize", CapabilityNone),
		policy:     policy,
	}
	e.DocHandler = func(ctx context.Context, doc *Document) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return e.policy.Sanitize(doc.Content()), nil
	}
	return e
}

var _ Engine = (*SanitizeEngine)(nil)
