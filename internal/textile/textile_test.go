package textile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alnah/go-doxs/internal/textile"
)

func TestConverterToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "heading",
			input: "h2. Test",
			want:  "<h2>Test</h2>",
		},
		{
			name:  "heading with phrases",
			input: "\nh2. A _slightly advanced_ test of the *Doxs* renderer.\n",
			want:  "<h2>A <em>slightly advanced</em> test of the <strong>Doxs</strong> renderer.</h2>",
		},
		{
			name:  "implicit paragraph",
			input: "Hello *world*",
			want:  "<p>Hello <strong>world</strong></p>",
		},
		{
			name:  "blocks separated by blank lines",
			input: "h1. Title\n\nBody text",
			want:  "<h1>Title</h1>\n<p>Body text</p>",
		},
		{
			name:  "line breaks inside paragraph",
			input: "line one\nline two",
			want:  "<p>line one<br />\nline two</p>",
		},
		{
			name:  "crlf normalized",
			input: "h3. One\r\n\r\nTwo",
			want:  "<h3>One</h3>\n<p>Two</p>",
		},
		{
			name:  "bulleted list",
			input: "* one\n* two",
			want:  "<ul>\n\t<li>one</li>\n\t<li>two</li>\n</ul>",
		},
		{
			name:  "nested numbered list",
			input: "# a\n## b\n# c",
			want:  "<ol>\n\t<li>a\n\t<ol>\n\t\t<li>b</li>\n\t</ol>\n\t</li>\n\t<li>c</li>\n</ol>",
		},
		{
			name:  "code span is escaped and protected",
			input: "Use @a*b*<c>@ here",
			want:  "<p>Use <code>a*b*&lt;c&gt;</code> here</p>",
		},
		{
			name:  "adjacent spans",
			input: "*a* *b*",
			want:  "<p><strong>a</strong> <strong>b</strong></p>",
		},
		{
			name:  "bold and italic",
			input: "**b** and __i__",
			want:  "<p><b>b</b> and <i>i</i></p>",
		},
		{
			name:  "deleted and inserted",
			input: "a -gone- +new+ b",
			want:  "<p>a <del>gone</del> <ins>new</ins> b</p>",
		},
		{
			name:  "hyphenated words untouched",
			input: "a well-known fact",
			want:  "<p>a well-known fact</p>",
		},
		{
			name:  "link strips trailing punctuation",
			input: `See "Go":https://go.dev.`,
			want:  `<p>See <a href="https://go.dev">Go</a>.</p>`,
		},
		{
			name:  "link with title",
			input: `"Go(home)":https://go.dev`,
			want:  `<p><a href="https://go.dev" title="home">Go</a></p>`,
		},
		{
			name:  "image",
			input: "!logo.png(Logo)!",
			want:  `<p><img src="logo.png" alt="Logo" title="Logo" /></p>`,
		},
		{
			name:  "block code escapes html",
			input: "bc. <x> & y",
			want:  "<pre><code>&lt;x&gt; &amp; y</code></pre>",
		},
		{
			name:  "blockquote",
			input: "bq. Quote",
			want:  "<blockquote>\n\t<p>Quote</p>\n</blockquote>",
		},
		{
			name:  "block attributes",
			input: "p(note#first). Hi",
			want:  `<p class="note" id="first">Hi</p>`,
		},
		{
			name:  "raw html block passes through",
			input: "<div>raw</div>",
			want:  "<div>raw</div>",
		},
		{
			name:  "blank input",
			input: " \n\n ",
			want:  "",
		},
	}

	conv := textile.New(textile.DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToHTML(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConverterWithoutBreaks(t *testing.T) {
	t.Parallel()

	conv := textile.New(textile.Options{Breaks: false})
	got, err := conv.ToHTML(context.Background(), "one\ntwo")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if want := "<p>one\ntwo</p>"; got != want {
		t.Errorf("ToHTML() = %q, want %q", got, want)
	}
}

func TestConverterCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := textile.New(textile.DefaultOptions()).ToHTML(ctx, "h1. x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestConverterPhrases(t *testing.T) {
	t.Parallel()

	conv := textile.New(textile.Options{Phrases: []textile.Phrase{
		{Delim: "??", Tag: "cite"},
		{Delim: "*", Tag: "mark"},
		{Delim: "q", Tag: "q"}, // skipped: not punctuation
	}})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"new delimiter", "As ??Knuth?? said", "<p>As <cite>Knuth</cite> said</p>"},
		{"overrides built-in", "a *b* c", "<p>a <mark>b</mark> c</p>"},
		{"built-ins still apply", "a _b_ c", "<p>a <em>b</em> c</p>"},
		{"invalid phrase ignored", "a qbq c", "<p>a qbq c</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.src)
			if err != nil {
				t.Fatalf("ToHTML() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phrase  textile.Phrase
		wantErr bool
	}{
		{textile.Phrase{Delim: "%", Tag: "span"}, false},
		{textile.Phrase{Delim: "??", Tag: "cite"}, false},
		{textile.Phrase{Delim: "==", Tag: "h6"}, false},
		{textile.Phrase{Delim: "", Tag: "span"}, true},
		{textile.Phrase{Delim: "%%%%", Tag: "span"}, true},
		{textile.Phrase{Delim: "a", Tag: "span"}, true},
		{textile.Phrase{Delim: "% ", Tag: "span"}, true},
		{textile.Phrase{Delim: "%", Tag: ""}, true},
		{textile.Phrase{Delim: "%", Tag: "Span"}, true},
		{textile.Phrase{Delim: "%", Tag: "a b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.phrase.Delim+"/"+tt.phrase.Tag, func(t *testing.T) {
			t.Parallel()

			err := textile.ValidatePhrase(tt.phrase)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePhrase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, textile.ErrInvalidPhrase) {
				t.Errorf("error = %v, want ErrInvalidPhrase", err)
			}
		})
	}
}
