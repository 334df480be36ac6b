package bookworks

import (
	"errors"

	"github.com/alnah/go-bookworks/internal/pandoc"
)

// Sentinel errors for pipeline validation. Wrap with fmt.Errorf("%w: ...")
// to add context while keeping errors.Is matching.
var (
	// ErrEmptyDocument indicates a document with no non-whitespace content
	// was given to an operation that requires one.
	ErrEmptyDocument = errors.New("document content cannot be empty")

	// ErrInvalidChunkSize indicates a chunk size bound that is zero or
	// negative.
	ErrInvalidChunkSize = errors.New("chunk size bounds must be positive")

	// ErrChunkSizeOrder indicates a minimum chunk size that is not strictly
	// below the maximum.
	ErrChunkSizeOrder = errors.New("minimum chunk size must be less than maximum")

	// ErrNoOutputPath indicates Publish was called without a destination.
	ErrNoOutputPath = errors.New("publish output path cannot be empty")
)

// Compiler errors surfaced from the pandoc runner, re-exported so callers
// can match them without importing internal packages.
var (
	// ErrCompilerNotFound indicates the pandoc binary is not installed or
	// not reachable on PATH.
	ErrCompilerNotFound = pandoc.ErrNotFound

	// ErrCompileFailed indicates pandoc ran but did not produce an EPUB.
	ErrCompileFailed = pandoc.ErrCompileFailed
)
