package bookworks

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-bookworks/internal/pandoc"
)

// Pipeline stage interfaces. Unexported so tests can substitute fakes
// without widening the public API.

type linkRepairer interface {
	RepairLinks(ctx context.Context, text string) string
}

type paragraphNormalizer interface {
	NormalizeParagraphs(ctx context.Context, text string) string
}

type speechCleaner interface {
	CleanForSpeech(ctx context.Context, text string) string
}

type chapterSegmenter interface {
	SegmentChapters(ctx context.Context, text string) []Chapter
}

type chapterChunker interface {
	ChunkChapter(ctx context.Context, ch Chapter, policy ChunkPolicy) ([]Chunk, error)
}

type bookCompiler interface {
	Compile(ctx context.Context, book pandoc.Book) error
}

// Service orchestrates the manuscript pipeline: repair, normalize,
// optionally clean for speech, segment, chunk, and publish.
type Service struct {
	cfg        serviceConfig
	repairer   linkRepairer
	normalizer paragraphNormalizer
	cleaner    speechCleaner
	segmenter  chapterSegmenter
	chunker    chapterChunker
	compiler   bookCompiler
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:        serviceConfig{timeout: defaultTimeout, policy: DefaultChunkPolicy()},
		repairer:   markdownRepairer{},
		normalizer: markdownNormalizer{},
		cleaner:    markdownSpeechCleaner{},
		segmenter:  headingSegmenter{},
		chunker:    policyChunker{},
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create the pandoc compiler if not injected (e.g., by tests).
	if s.compiler == nil {
		s.compiler = pandoc.NewCompiler()
	}

	return s
}

// Prepare runs link repair and paragraph normalization and returns the
// prepared Markdown. Whitespace-only content is a no-op that returns an
// empty string.
func (s *Service) Prepare(ctx context.Context, doc Document) (string, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return "", nil
	}

	repaired := s.repairer.RepairLinks(ctx, doc.Content)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	normalized := s.normalizer.NormalizeParagraphs(ctx, repaired)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	return normalized, nil
}

// ChunkDocument prepares the document, segments it into chapters, and
// chunks every chapter body under the given policy. A zero policy means
// the service policy (DefaultChunkPolicy unless WithChunkPolicy changed
// it). Chapters whose bodies produce no chunks are still present in the
// result. Whitespace-only content yields a nil slice.
//
// The policy is validated before any work happens.
func (s *Service) ChunkDocument(ctx context.Context, doc Document, policy ChunkPolicy) ([]ChapterChunks, error) {
	if policy == (ChunkPolicy{}) {
		policy = s.cfg.policy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	prepared, err := s.Prepare(ctx, doc)
	if err != nil {
		return nil, err
	}
	if prepared == "" {
		return nil, nil
	}

	if s.cfg.cleanForSpeech {
		prepared = s.cleaner.CleanForSpeech(ctx, prepared)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	chapters := s.segmenter.SegmentChapters(ctx, prepared)

	result := make([]ChapterChunks, 0, len(chapters))
	for _, ch := range chapters {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		chunks, err := s.chunker.ChunkChapter(ctx, ch, policy)
		if err != nil {
			return nil, fmt.Errorf("chunking chapter %d: %w", ch.Index, err)
		}
		result = append(result, ChapterChunks{Chapter: ch, Chunks: chunks})
	}

	return result, nil
}

// Publish prepares the document and compiles it to an EPUB at
// opts.OutputPath. Metadata resolution order is Document fields, then
// front matter, then the first level-1 heading. The service timeout
// bounds the external compiler run.
func (s *Service) Publish(ctx context.Context, doc Document, opts PublishOptions) error {
	if opts.OutputPath == "" {
		return ErrNoOutputPath
	}

	meta, body := ExtractMetadata(doc.Content)
	if doc.Title != "" {
		meta.Title = doc.Title
	}
	if doc.Author != "" {
		meta.Author = doc.Author
	}
	if doc.Date != "" {
		meta.Date = doc.Date
	}

	if strings.TrimSpace(body) == "" {
		return ErrEmptyDocument
	}

	prepared, err := s.Prepare(ctx, Document{Content: body})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	book := pandoc.Book{
		Markdown:     prepared,
		Title:        meta.Title,
		Author:       meta.Author,
		Date:         meta.Date,
		TOC:          opts.TOC,
		CSS:          opts.CSS,
		ChapterLevel: opts.ChapterLevel,
		OutputPath:   opts.OutputPath,
	}
	if err := s.compiler.Compile(ctx, book); err != nil {
		return fmt.Errorf("compiling epub: %w", err)
	}

	return nil
}

// Default stage implementations wrap the package-level transforms. Each
// checks for cancellation before doing work so a canceled context stops
// the pipeline between stages.

type markdownRepairer struct{}

func (markdownRepairer) RepairLinks(ctx context.Context, text string) string {
	if ctx.Err() != nil {
		return text
	}
	return RepairLinks(text)
}

type markdownNormalizer struct{}

func (markdownNormalizer) NormalizeParagraphs(ctx context.Context, text string) string {
	if ctx.Err() != nil {
		return text
	}
	return NormalizeParagraphs(text)
}

type markdownSpeechCleaner struct{}

func (markdownSpeechCleaner) CleanForSpeech(ctx context.Context, text string) string {
	if ctx.Err() != nil {
		return text
	}
	return CleanForSpeech(text)
}

type headingSegmenter struct{}

func (headingSegmenter) SegmentChapters(ctx context.Context, text string) []Chapter {
	if ctx.Err() != nil {
		return nil
	}
	return SegmentChapters(text)
}

type policyChunker struct{}

func (policyChunker) ChunkChapter(ctx context.Context, ch Chapter, policy ChunkPolicy) ([]Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ChunkChapter(ch, policy)
}
