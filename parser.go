package doxs

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Parser runs an ordered chain of engines over a Document.
//
// Engines execute in registration order, one at a time. Use and Parse are
// safe for concurrent use: registration takes a write lock and each Parse
// works on a snapshot of the engine list.
type Parser struct {
	mu      sync.RWMutex
	engines []Engine
	cursor  int // insertion index for the next Use, -1 appends

	logger Logger
}

// NewParser returns an empty Parser. Use New for the default assembly.
func NewParser(logger Logger) *Parser {
	if logger == nil {
		logger = NoOpLogger()
	}
	return &Parser{cursor: -1, logger: logger}
}

// Logger returns the parser logger. It never changes after construction.
func (p *Parser) Logger() Logger {
	return p.logger
}

// At sets the position where the next Use call inserts engines, clamped to
// the current engine count. The position resets after Use.
func (p *Parser) At(position int) *Parser {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor = min(max(position, 0), len(p.engines))
	return p
}

// Use registers items in order. Engines and EngineFactory values are
// inserted into the pipeline; add-ons are handed to every installed engine
// whose Handles method accepts them. An add-on no engine handles is dropped.
// Any other item yields ErrUnknownPlugin.
//
// Factories run under the registration lock and must not call Use.
func (p *Parser) Use(items ...any) error {
	p.mu.Lock()
	defer func() {
		p.cursor = -1
		p.mu.Unlock()
	}()

	for _, item := range items {
		switch v := item.(type) {
		case Engine:
			p.insert(v)
		case EngineFactory:
			p.insert(v(p))
		case func(*Parser) Engine:
			p.insert(v(p))
		case AddOn:
			if err := p.dispatch(v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %T", ErrUnknownPlugin, item)
		}
	}
	return nil
}

func (p *Parser) insert(e Engine) {
	if e == nil {
		return
	}
	if a, ok := e.(parserAttacher); ok {
		a.attachParser(p)
	}

	if p.cursor < 0 || p.cursor >= len(p.engines) {
		p.engines = append(p.engines, e)
	} else {
		p.engines = slices.Insert(p.engines, p.cursor, e)
		p.cursor++
	}
	p.logger.Debug("engine installed", "engine", e.Name(), "position", len(p.engines))
}

func (p *Parser) dispatch(addon AddOn) error {
	handled := 0
	for _, e := range p.engines {
		if !e.Handles(addon) {
			continue
		}
		if err := e.UsePlugin(addon); err != nil {
			return fmt.Errorf("installing %T into %s: %w", addon, e.Name(), err)
		}
		handled++
	}

	if handled == 0 {
		p.logger.Debug("add-on dropped, no engine handles it", "addon", fmt.Sprintf("%T", addon), "capability", addon.Capability().String())
	}
	return nil
}

// Engines returns the installed engines in execution order.
func (p *Parser) Engines() []Engine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.engines)
}

// Load wraps text and data in a new Document.
func (p *Parser) Load(text string, data map[string]any) *Document {
	return NewDocument(text, data)
}

// Parse runs the pipeline and returns the final content. input is a string,
// a []byte or a *Document; data is merged into the document first.
func (p *Parser) Parse(ctx context.Context, input any, data map[string]any) (string, error) {
	var doc *Document
	switch v := input.(type) {
	case string:
		doc = p.Load(v, data)
	case []byte:
		doc = p.Load(string(v), data)
	case *Document:
		if v == nil {
			return "", fmt.Errorf("%w: nil document", ErrInvalidContent)
		}
		doc = v
		if len(data) > 0 {
			doc.SetData(data)
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidContent, input)
	}

	if err := p.ParseDocument(ctx, doc); err != nil {
		return "", err
	}
	return doc.Content(), nil
}

// ParseDocument runs every engine over doc, in order.
func (p *Parser) ParseDocument(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidContent)
	}

	engines := p.Engines()
	log := p.logger.WithContext(ctx)

	for _, e := range engines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Parse(ctx, doc); err != nil {
			return err
		}
		log.Trace("engine done", "engine", e.Name(), "doc", doc.ID())
	}
	return nil
}
