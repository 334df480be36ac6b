package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/dateutil"
	"github.com/alnah/go-bookworks/internal/fileutil"
	"github.com/alnah/go-bookworks/internal/hints"
)

// runPublish prepares a Markdown manuscript and compiles it to EPUB
// with pandoc.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args)
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
	content, err := readMarkdown(inputPath)
	if err != nil {
		return err
	}
	logger.Debug().Str("input", inputPath).Int("bytes", len(content)).Msg("document loaded")

	meta, _ := bookworks.ExtractMetadata(content)
	doc := bookworks.Document{Content: content}

	title := resolveTitle(flags.document.title, cfg, doc, inputPath)
	author := firstNonEmpty(flags.document.author, meta.Author, cfg.Document.Author)
	date, err := dateutil.ResolveDate(firstNonEmpty(flags.document.date, meta.Date, cfg.Document.Date), env.Now())
	if err != nil {
		return err
	}

	css, err := resolveStyleContent(firstNonEmpty(flags.style, cfg.Publish.Style))
	if err != nil {
		return err
	}

	outPath := publishOutputPath(inputPath, flags.output, cfg.Output.DefaultDir, title)
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}
	}

	var opts []bookworks.Option
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid timeout %q", ErrBadFlags, flags.timeout)
		}
		opts = append(opts, bookworks.WithTimeout(d))
	}
	svc := env.NewService(opts...)

	if flags.debug {
		if err := writeDebugMarkdown(ctx, svc, content, outPath, logger); err != nil {
			return err
		}
	}

	publishOpts := bookworks.PublishOptions{
		OutputPath:   outPath,
		TOC:          cfg.Publish.TOC && !flags.noTOC,
		CSS:          css,
		ChapterLevel: firstPositive(flags.chapterLevel, cfg.Publish.ChapterLevel),
	}

	logger.Debug().
		Str("title", title).
		Str("author", author).
		Str("date", date).
		Bool("toc", publishOpts.TOC).
		Msg("compiling epub")

	book := bookworks.Document{Content: content, Title: title, Author: author, Date: date}
	if err := svc.Publish(ctx, book, publishOpts); err != nil {
		return publishError(err)
	}

	logger.Info().Str("output", outPath).Dur("duration", time.Since(start)).Msg("epub published")
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", outPath)
	}
	return nil
}

// publishOutputPath decides where the EPUB lands. An explicit .epub
// path wins; otherwise the book title names the file inside the output
// directory (flag, then config, then the input's directory).
func publishOutputPath(inputPath, flagOutput, defaultDir, title string) string {
	if strings.HasSuffix(flagOutput, ".epub") {
		return flagOutput
	}
	dir := firstNonEmpty(flagOutput, defaultDir, filepath.Dir(inputPath))
	return filepath.Join(dir, fileutil.EpubFileName(title))
}

// writeDebugMarkdown materializes the processed Markdown next to the
// EPUB so compile problems can be inspected. Written before the compile
// so it survives a pandoc failure.
func writeDebugMarkdown(ctx context.Context, svc Pipeline, content, outPath string, logger zerolog.Logger) error {
	_, body := bookworks.ExtractMetadata(content)
	prepared, err := svc.Prepare(ctx, bookworks.Document{Content: body})
	if err != nil {
		return err
	}

	debugPath := strings.TrimSuffix(outPath, ".epub") + ".md"
	if err := writeOutputFile(debugPath, prepared); err != nil {
		return err
	}
	logger.Debug().Str("path", debugPath).Msg("kept processed markdown")
	return nil
}

// publishError attaches actionable hints to well-known compile failures.
func publishError(err error) error {
	switch {
	case errors.Is(err, bookworks.ErrCompilerNotFound):
		return fmt.Errorf("%w%s", err, hints.ForPandocNotFound())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, bookworks.ErrEmptyDocument):
		return fmt.Errorf("%w%s", err, hints.ForEmptyDocument())
	}
	return err
}
