package bookworks

import (
	"fmt"
	"time"
)

// Chunk size defaults, sized for text-to-speech engines that accept a few
// thousand characters per request.
const (
	DefaultMaxChunkSize = 2000
	DefaultMinChunkSize = 500
)

// Document is a Markdown manuscript plus optional metadata overrides.
// Title, Author, and Date take precedence over values discovered in the
// content itself (front matter or a leading level-1 heading).
type Document struct {
	Content string
	Title   string
	Author  string
	Date    string
}

// Chapter is one segment of a document. Index 0 is reserved for preface
// text before the first level-2 heading; heading chapters are numbered
// from 1 in document order. Body retains the heading line.
type Chapter struct {
	Index int
	Title string
	Body  string
}

// Chunk is a bounded piece of a chapter body. Index is 1-based within the
// chapter.
type Chunk struct {
	ChapterIndex int
	Index        int
	Content      string
}

// ChapterChunks pairs a chapter with the chunks produced from its body.
// Chunks is empty when the chapter body has no non-whitespace content.
type ChapterChunks struct {
	Chapter Chapter
	Chunks  []Chunk
}

// ChunkPolicy bounds chunk sizes, measured in bytes of UTF-8 text.
// MaxChunkSize is a hard ceiling except for a single sentence that
// exceeds it on its own, which is emitted unsplit rather than truncated.
type ChunkPolicy struct {
	MaxChunkSize int
	MinChunkSize int
}

// DefaultChunkPolicy returns the policy used when callers have no
// engine-specific limits.
func DefaultChunkPolicy() ChunkPolicy {
	return ChunkPolicy{
		MaxChunkSize: DefaultMaxChunkSize,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Validate checks that the bounds are positive and correctly ordered.
func (p ChunkPolicy) Validate() error {
	if p.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: max %d", ErrInvalidChunkSize, p.MaxChunkSize)
	}
	if p.MinChunkSize <= 0 {
		return fmt.Errorf("%w: min %d", ErrInvalidChunkSize, p.MinChunkSize)
	}
	if p.MinChunkSize >= p.MaxChunkSize {
		return fmt.Errorf("%w: min %d, max %d", ErrChunkSizeOrder, p.MinChunkSize, p.MaxChunkSize)
	}
	return nil
}

// PublishOptions configures EPUB compilation.
type PublishOptions struct {
	OutputPath   string // destination .epub path (required)
	TOC          bool   // generate a table of contents
	CSS          string // stylesheet content embedded into the book (optional)
	ChapterLevel int    // heading level that opens an EPUB chapter (0 = level 2)
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout        time.Duration
	cleanForSpeech bool
	policy         ChunkPolicy
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the publishing timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("bookworks: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithSpeechCleaning enables the speech cleanup stage during
// ChunkDocument, stripping Markdown syntax and publisher boilerplate
// before segmentation.
func WithSpeechCleaning() Option {
	return func(s *Service) {
		s.cfg.cleanForSpeech = true
	}
}

// WithChunkPolicy sets the policy ChunkDocument falls back to when
// called with a zero ChunkPolicy.
func WithChunkPolicy(p ChunkPolicy) Option {
	return func(s *Service) {
		s.cfg.policy = p
	}
}
