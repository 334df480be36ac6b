package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/assets"
	"github.com/alnah/go-bookworks/internal/render"
)

// runPreview renders a manuscript to a standalone HTML page for a quick
// look in the browser before publishing.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args)
	if err != nil {
		return err
	}
	logger := env.logger(flags.common)

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	doc, err := loadDocument(inputPath)
	if err != nil {
		return err
	}
	logger.Debug().Str("input", inputPath).Int("bytes", len(doc.Content)).Msg("document loaded")

	_, body := bookworks.ExtractMetadata(doc.Content)

	svc := env.NewService()
	prepared, err := svc.Prepare(ctx, bookworks.Document{Content: body})
	if err != nil {
		return err
	}
	if prepared == "" {
		fmt.Fprintln(env.Stdout, "Nothing to preview: document is empty")
		return nil
	}

	css, err := previewCSS(firstNonEmpty(flags.style, cfg.Publish.Style, assets.DefaultStyleName))
	if err != nil {
		return err
	}

	title := resolveTitle(flags.title, cfg, doc, inputPath)

	page, err := render.NewRenderer().Render(ctx, render.Page{Title: title, Markdown: prepared, CSS: css})
	if err != nil {
		return err
	}

	outPath := previewOutputPath(inputPath, flags.output, cfg.Output.DefaultDir)
	if err := writeOutputFile(outPath, page); err != nil {
		return err
	}

	logger.Info().
		Str("output", outPath).
		Int("bytes", len(page)).
		Dur("duration", time.Since(start)).
		Msg("preview rendered")
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// previewCSS resolves the style and appends the syntax highlighting
// classes goldmark emits for fenced code blocks.
func previewCSS(styleValue string) (string, error) {
	css, err := resolveStyleContent(styleValue)
	if err != nil {
		return "", err
	}

	highlight, err := render.HighlightCSS()
	if err != nil {
		return "", err
	}

	if css == "" {
		return highlight, nil
	}
	return css + "\n" + highlight, nil
}

// previewOutputPath mirrors the input name with an .html extension. An
// explicit .html output wins; otherwise the flag (or config, or the
// input's directory) names the directory.
func previewOutputPath(inputPath, flagOutput, defaultDir string) string {
	if strings.HasSuffix(flagOutput, ".html") {
		return flagOutput
	}
	name := fileStem(inputPath) + ".html"
	dir := firstNonEmpty(flagOutput, defaultDir, filepath.Dir(inputPath))
	return filepath.Join(dir, name)
}
