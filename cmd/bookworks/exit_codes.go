package main

import (
	"context"
	"errors"
	"os"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/assets"
	"github.com/alnah/go-bookworks/internal/config"
	"github.com/alnah/go-bookworks/internal/dateutil"
	"github.com/alnah/go-bookworks/internal/epub"
)

// Exit codes for the bookworks CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied, bad input file
	ExitCompiler = 4 // Pandoc missing or compilation failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, bookworks.ErrCompilerNotFound) ||
		errors.Is(err, bookworks.ErrCompileFailed) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitCompiler
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadStyle) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, epub.ErrInvalidEPUB) ||
		errors.Is(err, epub.ErrNoContent) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrBadFlags) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrChunkBounds) ||
		errors.Is(err, bookworks.ErrInvalidChunkSize) ||
		errors.Is(err, bookworks.ErrChunkSizeOrder) ||
		errors.Is(err, bookworks.ErrEmptyDocument) ||
		errors.Is(err, bookworks.ErrNoOutputPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
