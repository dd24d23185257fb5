package doxs

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one parser is available.
	MinPoolSize = 1

	// MaxPoolSize caps the number of parsers kept alive.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the PDF browser and file IO.
	cpuDivisor = 2
)

// ParserPool hands out Parsers built from the same options for batch
// rendering. Parsers are created lazily on first acquire.
type ParserPool struct {
	size    int
	opts    []Option
	sem     chan *Parser
	mu      sync.Mutex
	created int
	closed  bool
}

// NewParserPool creates a pool with capacity for n parsers built by
// New(opts...).
func NewParserPool(n int, opts ...Option) *ParserPool {
	if n < 1 {
		n = 1
	}

	return &ParserPool{
		size: n,
		opts: opts,
		sem:  make(chan *Parser, n),
	}
}

// Acquire gets a parser from the pool, creating one if capacity allows.
// Blocks until a parser is released or ctx is done.
func (p *ParserPool) Acquire(ctx context.Context) (*Parser, error) {
	// Try to get an idle parser (non-blocking)
	select {
	case parser, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Build outside the lock
		parser, err := New(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return parser, nil
	}
	p.mu.Unlock()

	select {
	case parser, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return parser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a parser to the pool. Releasing into a closed pool drops
// the parser.
func (p *ParserPool) Release(parser *Parser) {
	if parser == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	// Never blocks: at most size parsers exist.
	select {
	case p.sem <- parser:
	default:
	}
}

// Close stops the pool. Blocked Acquire calls return ErrPoolClosed.
func (p *ParserPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *ParserPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
