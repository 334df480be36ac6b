package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/assets"
	"github.com/alnah/go-bookworks/internal/config"
	"github.com/alnah/go-bookworks/internal/epub"
	"github.com/alnah/go-bookworks/internal/fileutil"
	"github.com/alnah/go-bookworks/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrReadStyle          = errors.New("failed to read style file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrBadFlags           = errors.New("invalid flags")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// loadConfig loads the named config, or the defaults when no name was
// given. Not-found errors carry a hint naming the searched locations.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// loadDocument reads a manuscript from disk. Markdown files pass
// through as-is; EPUB archives are extracted to Markdown with their
// OPF title and author carried as Document metadata.
func loadDocument(path string) (bookworks.Document, error) {
	if epub.IsEPUB(path) {
		book, err := epub.Extract(path)
		if err != nil {
			return bookworks.Document{}, err
		}
		return bookworks.Document{
			Content: book.Markdown,
			Title:   book.Title,
			Author:  book.Author,
		}, nil
	}

	content, err := readMarkdown(path)
	if err != nil {
		return bookworks.Document{}, err
	}
	return bookworks.Document{Content: content}, nil
}

// readMarkdown reads a Markdown file, rejecting other extensions.
func readMarkdown(path string) (string, error) {
	if err := validateMarkdownExtension(path); err != nil {
		return "", err
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(content), nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// resolveTitle determines the document title. Precedence: explicit
// flag, then document metadata (EPUB OPF, front matter, first level-1
// heading), then the config default, then the input file name.
func resolveTitle(flagTitle string, cfg *config.Config, doc bookworks.Document, inputPath string) string {
	if flagTitle != "" {
		return flagTitle
	}
	if doc.Title != "" {
		return doc.Title
	}
	meta, _ := bookworks.ExtractMetadata(doc.Content)
	if meta.Title != "" && meta.Title != bookworks.UntitledDocument {
		return meta.Title
	}
	if cfg.Document.Title != "" {
		return cfg.Document.Title
	}
	return fileStem(inputPath)
}

// fileStem returns the file name without directory or extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolveStyleContent turns a --style value into CSS. Empty means no
// styling; inline CSS and file paths pass through reading; anything
// else is a built-in style name.
func resolveStyleContent(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if fileutil.IsCSS(value) {
		return value, nil
	}
	if fileutil.IsFilePath(value) {
		content, err := os.ReadFile(value) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadStyle, err)
		}
		return string(content), nil
	}

	content, err := assets.LoadStyle(value)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.ListStyles()))
		}
		return "", err
	}
	return content, nil
}

// writeOutputFile writes content, creating the parent directory first.
func writeOutputFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}
	}
	// #nosec G306 -- output files are meant to be readable
	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
