package doxs

// Capability names the kind of engine an add-on extends.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityTemplate
	CapabilityMarkdown
	CapabilityTextile
)

func (c Capability) String() string {
	switch c {
	case CapabilityTemplate:
		return "template"
	case CapabilityMarkdown:
		return "markdown"
	case CapabilityTextile:
		return "textile"
	default:
		return "none"
	}
}

// AddOn extends one kind of engine. Parser.Use routes it to every installed
// engine that declares the same capability.
type AddOn interface {
	Capability() Capability
}

// AddOnFactory builds an add-on bound to the engine receiving it.
type AddOnFactory interface {
	Capability() Capability
	NewAddOn(e Engine) AddOn
}

// EngineFactory builds an engine bound to the parser installing it.
type EngineFactory func(p *Parser) Engine

// resolveAddOn returns the concrete add-on for e, instantiating factories.
func resolveAddOn(e Engine, addon AddOn) AddOn {
	if f, ok := addon.(AddOnFactory); ok {
		return f.NewAddOn(e)
	}
	return addon
}
