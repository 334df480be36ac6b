package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/epub"
	"github.com/alnah/go-bookworks/internal/yamlutil"
)

// runPrepare reads a manuscript, repairs split links, normalizes
// paragraph spacing, and writes the prepared Markdown.
func runPrepare(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePrepareFlags(args)
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

	svc := env.NewService()
	prepared, err := svc.Prepare(ctx, doc)
	if err != nil {
		return err
	}
	if prepared == "" {
		fmt.Fprintln(env.Stdout, "Nothing to prepare: document is empty")
		return nil
	}

	// EPUB metadata survives as front matter so a later publish sees it.
	if doc.Title != "" || doc.Author != "" {
		prepared, err = prependFrontMatter(prepared, doc)
		if err != nil {
			return err
		}
	}

	outPath := preparedOutputPath(inputPath, flags.output, cfg.Output.DefaultDir)
	if err := writeOutputFile(outPath, prepared); err != nil {
		return err
	}

	logger.Info().
		Str("output", outPath).
		Int("bytes", len(prepared)).
		Dur("duration", time.Since(start)).
		Msg("prepared")

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// prependFrontMatter writes document metadata as a YAML front matter
// block above the content.
func prependFrontMatter(content string, doc bookworks.Document) (string, error) {
	block, err := yamlutil.Marshal(bookworks.Metadata{
		Title:  doc.Title,
		Author: doc.Author,
		Date:   doc.Date,
	})
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	return "---\n" + string(block) + "---\n\n" + content, nil
}

// preparedOutputPath names the prepared file. EPUB inputs swap the
// extension; Markdown inputs get a suffix so the source is never
// overwritten. An explicit .md output is used as given; any other
// output value is treated as a directory.
func preparedOutputPath(inputPath, flagOutput, defaultDir string) string {
	if strings.HasSuffix(flagOutput, ".md") {
		return flagOutput
	}

	name := fileStem(inputPath) + "_prepared.md"
	if epub.IsEPUB(inputPath) {
		name = fileStem(inputPath) + ".md"
	}

	dir := firstNonEmpty(flagOutput, defaultDir, filepath.Dir(inputPath))
	return filepath.Join(dir, name)
}
