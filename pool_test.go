package doxs

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Parser, error)
	Release(*Parser)
	Size() int
	Close() error
} = (*ParserPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 20,
			want:    20,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewParserPool_MinimumSize(t *testing.T) {
	t.Parallel()

	for _, n := range []int{-1, 0} {
		if got := NewParserPool(n).Size(); got != 1 {
			t.Errorf("NewParserPool(%d).Size() = %d, want 1", n, got)
		}
	}
}

func TestParserPool_ReusesParsers(t *testing.T) {
	t.Parallel()

	pool := NewParserPool(1, WithParseOrder("M"))
	defer pool.Close()

	ctx := context.Background()
	first, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	pool.Release(first)

	second, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if first != second {
		t.Error("pool built a new parser instead of reusing the released one")
	}
	pool.Release(second)
}

func TestParserPool_BlocksUntilRelease(t *testing.T) {
	t.Parallel()

	pool := NewParserPool(1)
	defer pool.Close()

	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want DeadlineExceeded", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		pool.Release(held)
	}()

	got, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if got != held {
		t.Error("Acquire() returned a different parser")
	}
}

func TestParserPool_Close(t *testing.T) {
	t.Parallel()

	pool := NewParserPool(2)
	p, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	// Releasing into a closed pool must not panic.
	pool.Release(p)

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestParserPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	pool := NewParserPool(1, WithParseOrder("Q"))
	defer pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrInvalidParseOrder) {
		t.Fatalf("Acquire() error = %v, want ErrInvalidParseOrder", err)
	}
	// The failed build must not consume capacity.
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrInvalidParseOrder) {
		t.Errorf("second Acquire() error = %v, want ErrInvalidParseOrder", err)
	}
}

func TestParserPool_Concurrent(t *testing.T) {
	t.Parallel()

	pool := NewParserPool(3, WithParseOrder("TM"))
	defer pool.Close()

	var wg sync.WaitGroup
	for i := range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			p, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() error: %v", err)
				return
			}
			defer pool.Release(p)

			got, err := p.Parse(context.Background(), "# {{ n }}", map[string]any{"n": i})
			if err != nil {
				t.Errorf("Parse() error: %v", err)
				return
			}
			if got == "" {
				t.Error("Parse() returned empty output")
			}
		}()
	}
	wg.Wait()
}
