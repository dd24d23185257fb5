package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		css  string
		want string
	}{
		{name: "plain css", css: "body { color: red; }", want: "body { color: red; }"},
		{name: "closing style tag", css: "a{}</style><script>", want: `a{}<\/style><script>`},
		{name: "uppercase closing tag", css: "</STYLE>", want: `<\/STYLE>`},
		{name: "empty", css: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.css); got != tt.want {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.css, got, tt.want)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before closing head",
			html: "<html><head><title>x</title></head><body></body></html>",
			css:  "p{}",
			want: "<html><head><title>x</title><style>p{}</style></head><body></body></html>",
		},
		{
			name: "after body when no head",
			html: `<body class="doc"><p>x</p></body>`,
			css:  "p{}",
			want: `<body class="doc"><style>p{}</style><p>x</p></body>`,
		},
		{
			name: "prepended for fragments",
			html: "<p>x</p>",
			css:  "p{}",
			want: "<style>p{}</style><p>x</p>",
		},
		{
			name: "empty css is a no-op",
			html: "<p>x</p>",
			css:  "",
			want: "<p>x</p>",
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<p>x</p>"
	if got := (&CSSInjection{}).InjectCSS(ctx, html, "p{}"); got != html {
		t.Errorf("InjectCSS() with cancelled context = %q, want unchanged", got)
	}
}

func TestPageWrapper(t *testing.T) {
	t.Parallel()

	const tmpl = `<!DOCTYPE html><html lang="{{.Lang}}"><head><title>{{.Title}}</title>` +
		`{{range $k, $v := .Meta}}<meta name="{{$k}}" content="{{$v}}">{{end}}</head>` +
		`<body><main>{{.Body}}</main></body></html>`

	wrapper, err := NewPageWrapper(tmpl)
	if err != nil {
		t.Fatalf("NewPageWrapper() error: %v", err)
	}

	t.Run("body is not escaped, title is", func(t *testing.T) {
		t.Parallel()

		got, err := wrapper.Wrap(context.Background(), &PageData{
			Title: "A <b> title",
			Body:  "<h1>Hi</h1>",
			Meta:  map[string]string{"author": "Alex"},
		})
		if err != nil {
			t.Fatalf("Wrap() error: %v", err)
		}
		for _, want := range []string{
			`lang="en"`,
			"<title>A &lt;b&gt; title</title>",
			`<meta name="author" content="Alex">`,
			"<main><h1>Hi</h1></main>",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("Wrap() missing %q\ngot: %s", want, got)
			}
		}
	})

	t.Run("nil data renders empty page", func(t *testing.T) {
		t.Parallel()

		got, err := wrapper.Wrap(context.Background(), nil)
		if err != nil {
			t.Fatalf("Wrap() error: %v", err)
		}
		if !strings.Contains(got, "<main></main>") {
			t.Errorf("Wrap(nil) = %q", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := wrapper.Wrap(ctx, &PageData{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Wrap() error = %v, want context.Canceled", err)
		}
	})
}

func TestNewPageWrapper_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := NewPageWrapper("{{.Body"); err == nil {
		t.Fatal("NewPageWrapper() expected error for malformed template")
	}
}

func TestExtractHeadings(t *testing.T) {
	t.Parallel()

	html := `<h1 id="a">One</h1><h2 id="b">Two <em>x</em></h2><h3>No id</h3><h3 id="c">A &amp; B</h3><h4 id="d">Deep</h4>`

	got := extractHeadings(html, 1, 3)
	want := []headingInfo{
		{Level: 1, ID: "a", Text: "One"},
		{Level: 2, ID: "b", Text: "Two x"},
		{Level: 3, ID: "c", Text: "A & B"},
	}

	if len(got) != len(want) {
		t.Fatalf("extractHeadings() returned %d headings, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("heading %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNumberingState_Next(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		levels []int
		want   []string
	}{
		{name: "flat", levels: []int{2, 2, 2}, want: []string{"1.", "2.", "3."}},
		{name: "nested", levels: []int{2, 3, 3, 2, 3}, want: []string{"1.", "1.1.", "1.2.", "2.", "2.1."}},
		{name: "gap collapses", levels: []int{1, 3}, want: []string{"1.", "1.1."}},
		{name: "shallower than first", levels: []int{3, 2}, want: []string{"1.", "2."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var state numberingState
			for i, level := range tt.levels {
				got, _ := state.next(level)
				if got != tt.want[i] {
					t.Errorf("next(%d) #%d = %q, want %q", level, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestInjectTOC(t *testing.T) {
	t.Parallel()

	injector := &TOCInjection{}
	ctx := context.Background()

	t.Run("nil data returns HTML unchanged", func(t *testing.T) {
		t.Parallel()

		html := "<body><h2 id=\"x\">X</h2></body>"
		got, err := injector.InjectTOC(ctx, html, nil)
		if err != nil || got != html {
			t.Errorf("InjectTOC(nil) = %q, %v", got, err)
		}
	})

	t.Run("inserted at start of main", func(t *testing.T) {
		t.Parallel()

		html := `<body><header>h</header><main><h2 id="intro">Intro</h2><h3 id="more">More</h3></main></body>`
		got, err := injector.InjectTOC(ctx, html, &TOCData{Title: "Contents"})
		if err != nil {
			t.Fatalf("InjectTOC() error: %v", err)
		}
		if !strings.HasPrefix(got, `<body><header>h</header><main><nav class="toc">`) {
			t.Errorf("TOC not at start of <main>: %s", got)
		}
		for _, want := range []string{
			`<h2 class="toc-title">Contents</h2>`,
			`<a href="#intro">1. Intro</a>`,
			`style="padding-left:1.5em"><a href="#more">1.1. More</a>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("InjectTOC() missing %q\ngot: %s", want, got)
			}
		}
	})

	t.Run("depth filter", func(t *testing.T) {
		t.Parallel()

		html := `<body><h1 id="h1">H1</h1><h2 id="h2">H2</h2><h3 id="h3">H3</h3></body>`
		got, err := injector.InjectTOC(ctx, html, &TOCData{MinDepth: 1, MaxDepth: 2})
		if err != nil {
			t.Fatalf("InjectTOC() error: %v", err)
		}
		if strings.Contains(got, `href="#h3"`) {
			t.Error("TOC should not link H3 with MaxDepth 2")
		}
		if !strings.Contains(got, `href="#h1"`) {
			t.Error("TOC should link H1 with MinDepth 1")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := injector.InjectTOC(cctx, `<h2 id="a">A</h2>`, &TOCData{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("InjectTOC() error = %v, want context.Canceled", err)
		}
	})
}
