package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/config"
)

func TestValidateMarkdownExtension(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"md", "book.md", false},
		{"markdown", "book.markdown", false},
		{"md in directory", "dir/sub/book.md", false},
		{"txt", "book.txt", true},
		{"epub", "book.epub", true},
		{"no extension", "book", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateMarkdownExtension(tt.path)
			if tt.wantErr && !errors.Is(err, ErrInvalidExtension) {
				t.Errorf("validateMarkdownExtension(%q) = %v, want ErrInvalidExtension", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateMarkdownExtension(%q) = %v, want nil", tt.path, err)
			}
		})
	}
}

func TestReadMarkdown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.md")
	if err := os.WriteFile(path, []byte("# Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := readMarkdown(path)
	if err != nil {
		t.Fatalf("readMarkdown() err = %v", err)
	}
	if content != "# Title\n" {
		t.Errorf("readMarkdown() = %q, want %q", content, "# Title\n")
	}

	if _, err := readMarkdown(filepath.Join(dir, "missing.md")); !errors.Is(err, ErrReadInput) {
		t.Errorf("missing file err = %v, want ErrReadInput", err)
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()

	if got, err := resolveInputPath([]string{"explicit.md"}, cfg); err != nil || got != "explicit.md" {
		t.Errorf("resolveInputPath(args) = %q, %v", got, err)
	}

	withDefault := config.DefaultConfig()
	withDefault.Input.DefaultDir = "manuscripts"
	if got, err := resolveInputPath(nil, withDefault); err != nil || got != "manuscripts" {
		t.Errorf("resolveInputPath(config) = %q, %v", got, err)
	}

	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("resolveInputPath(nothing) err = %v, want ErrNoInput", err)
	}
}

func TestResolveTitle(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()
	cfgWithTitle := config.DefaultConfig()
	cfgWithTitle.Document.Title = "Config Title"

	tests := []struct {
		name      string
		flagTitle string
		cfg       *config.Config
		doc       bookworks.Document
		inputPath string
		want      string
	}{
		{
			name:      "flag wins",
			flagTitle: "Flag Title",
			cfg:       cfgWithTitle,
			doc:       bookworks.Document{Title: "Doc Title", Content: "# Heading Title\n"},
			inputPath: "stem.md",
			want:      "Flag Title",
		},
		{
			name:      "document metadata second",
			cfg:       cfgWithTitle,
			doc:       bookworks.Document{Title: "Doc Title", Content: "# Heading Title\n"},
			inputPath: "stem.md",
			want:      "Doc Title",
		},
		{
			name:      "front matter third",
			cfg:       cfgWithTitle,
			doc:       bookworks.Document{Content: "---\ntitle: FM Title\n---\n\nbody\n"},
			inputPath: "stem.md",
			want:      "FM Title",
		},
		{
			name:      "first heading fourth",
			cfg:       cfgWithTitle,
			doc:       bookworks.Document{Content: "# Heading Title\n\nbody\n"},
			inputPath: "stem.md",
			want:      "Heading Title",
		},
		{
			name:      "config fifth",
			cfg:       cfgWithTitle,
			doc:       bookworks.Document{Content: "plain body\n"},
			inputPath: "stem.md",
			want:      "Config Title",
		},
		{
			name:      "file stem last",
			cfg:       cfg,
			doc:       bookworks.Document{Content: "plain body\n"},
			inputPath: "path/to/my_book.md",
			want:      "my_book",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveTitle(tt.flagTitle, tt.cfg, tt.doc, tt.inputPath)
			if got != tt.want {
				t.Errorf("resolveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileStem(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want string
	}{
		{"book.md", "book"},
		{"dir/sub/book.markdown", "book"},
		{"archive.epub", "archive"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := fileStem(tt.path); got != tt.want {
			t.Errorf("fileStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteOutputFileCreatesParent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.md")

	if err := writeOutputFile(path, "content"); err != nil {
		t.Fatalf("writeOutputFile() err = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("written content = %q, want %q", data, "content")
	}
}

func TestResolveStyleContent(t *testing.T) {
	t.Parallel()

	t.Run("empty means no styling", func(t *testing.T) {
		t.Parallel()
		css, err := resolveStyleContent("")
		if err != nil || css != "" {
			t.Errorf("resolveStyleContent(\"\") = %q, %v", css, err)
		}
	})

	t.Run("inline CSS passes through", func(t *testing.T) {
		t.Parallel()
		inline := "body { margin: 2em; }"
		css, err := resolveStyleContent(inline)
		if err != nil || css != inline {
			t.Errorf("resolveStyleContent(inline) = %q, %v", css, err)
		}
	})

	t.Run("file path reads the file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "style.css")
		if err := os.WriteFile(path, []byte("p Xcolor"), 0o644); err != nil {
			t.Fatal(err)
		}
		css, err := resolveStyleContent(path)
		if err != nil || css != "p Xcolor" {
			t.Errorf("resolveStyleContent(path) = %q, %v", css, err)
		}
	})

	t.Run("built-in style name", func(t *testing.T) {
		t.Parallel()
		css, err := resolveStyleContent("book")
		if err != nil {
			t.Fatalf("resolveStyleContent(book) err = %v", err)
		}
		if css == "" {
			t.Error("built-in style should not be empty")
		}
	})

	t.Run("unknown style lists available", func(t *testing.T) {
		t.Parallel()
		_, err := resolveStyleContent("nope")
		if err == nil {
			t.Fatal("unknown style should fail")
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error %q should carry an availability hint", err)
		}
	})
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()
	if got := firstNonEmpty("", "", "third"); got != "third" {
		t.Errorf("firstNonEmpty = %q, want %q", got, "third")
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
