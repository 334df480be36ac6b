// Package bookworks prepares book-length Markdown manuscripts for
// text-to-speech narration and EPUB publishing.
//
// The core of the package is a pipeline of four pure text transforms.
// Each one accepts and returns plain strings or small value types, never
// touches the filesystem, and can be composed freely:
//
//	repaired := bookworks.RepairLinks(raw)
//	normalized := bookworks.NormalizeParagraphs(repaired)
//	chapters := bookworks.SegmentChapters(normalized)
//
//	for _, ch := range chapters {
//		chunks, err := bookworks.ChunkChapter(ch, bookworks.DefaultChunkPolicy())
//		// ...
//	}
//
// # Quick Start
//
// The Service facade runs the stages in order and adds cancellation,
// optional speech cleanup, and EPUB compilation:
//
//	svc := bookworks.New(
//		bookworks.WithTimeout(60 * time.Second),
//	)
//
//	doc := bookworks.Document{Content: markdown, Title: "My Book"}
//
//	prepared, err := svc.Prepare(ctx, doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	perChapter, err := svc.ChunkDocument(ctx, doc, bookworks.DefaultChunkPolicy())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Processing Pipeline
//
// The pipeline stages run in a fixed order, each consuming the previous
// stage's output:
//
//  1. Link repair: Markdown links broken across line boundaries (a common
//     artifact of EPUB extraction) are rejoined onto one line. Fenced code
//     blocks pass through untouched, and text the repairer cannot resolve
//     is left exactly as it was.
//  2. Paragraph normalization: runs of blank lines between blocks collapse
//     to exactly one, while fenced code blocks and list regions keep their
//     spacing verbatim. The result is stable: normalizing twice changes
//     nothing.
//  3. Chapter segmentation: the document splits at level-2 headings. Text
//     before the first heading becomes a "Preface" chapter, and each
//     heading opens a chapter that retains the heading as its first line.
//  4. Chunking: each chapter body is packed into chunks bounded by a
//     ChunkPolicy, first along paragraph boundaries and then, for
//     paragraphs that exceed the maximum on their own, along sentence
//     boundaries.
//
// # Publishing
//
// Service.Publish compiles a prepared manuscript to EPUB through an
// external pandoc binary. Front matter and the first level-1 heading
// supply title, author, and date metadata unless the Document overrides
// them:
//
//	err := svc.Publish(ctx, doc, bookworks.PublishOptions{
//		OutputPath: "book.epub",
//		TOC:        true,
//	})
//
// Pandoc must be installed and reachable on PATH; Publish reports
// ErrCompilerNotFound otherwise.
//
// # Speech Cleanup
//
// WithSpeechCleaning enables an additional stage between normalization
// and segmentation that strips Markdown syntax, anchors, and publisher
// boilerplate that text-to-speech engines would otherwise read aloud.
package bookworks
