package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	bookworks "github.com/alnah/go-bookworks"
	"github.com/alnah/go-bookworks/internal/fileutil"
	"github.com/alnah/go-bookworks/internal/hints"
)

// chapterResult holds the outcome of writing one chapter's files.
type chapterResult struct {
	Index       int
	Title       string
	ChapterPath string
	Chunks      int
	Bytes       int
	Err         error
	Duration    time.Duration
}

// runChunk splits a manuscript into chapters and bounded-size chunks
// and writes them as files, one directory per document.
func runChunk(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseChunkFlags(args)
	if err != nil {
		return err
	}
	logger := env.logger(flags.common)

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

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

	policy := bookworks.ChunkPolicy{
		MaxChunkSize: firstPositive(flags.maxChunk, cfg.Chunk.MaxSize, bookworks.DefaultMaxChunkSize),
		MinChunkSize: firstPositive(flags.minChunk, cfg.Chunk.MinSize, bookworks.DefaultMinChunkSize),
	}

	var opts []bookworks.Option
	if speechCleaning(flags, cfg.Chunk.Speech) {
		opts = append(opts, bookworks.WithSpeechCleaning())
	}
	svc := env.NewService(opts...)

	chapters, err := svc.ChunkDocument(ctx, doc, policy)
	if err != nil {
		if errors.Is(err, bookworks.ErrInvalidChunkSize) || errors.Is(err, bookworks.ErrChunkSizeOrder) {
			return fmt.Errorf("%w%s", err, hints.ForChunkPolicy())
		}
		return err
	}
	if len(chapters) == 0 {
		fmt.Fprintln(env.Stdout, "Nothing to chunk: document is empty")
		return nil
	}

	title := resolveTitle(flags.title, cfg, doc, inputPath)
	docDir := filepath.Join(firstNonEmpty(flags.output, cfg.Output.DefaultDir, "."), fileutil.SlugTitle(title))
	if err := os.MkdirAll(docDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	workers := resolveWorkers(flags.workers)
	logger.Debug().Int("workers", workers).Int("chapters", len(chapters)).Msg("writing chapter files")

	results := writeChapterFiles(ctx, docDir, chapters, workers)

	failed := printChunkResults(results, docDir, flags.common.quiet, env, logger, time.Since(start))
	if failed > 0 {
		return fmt.Errorf("%d chapter(s) failed", failed)
	}
	return nil
}

// speechCleaning decides whether the TTS cleanup stage runs. An
// explicit --tts-clean wins; otherwise the config decides.
func speechCleaning(flags *chunkFlags, configSpeech bool) bool {
	if flags.ttsCleanSet {
		return flags.ttsClean
	}
	return configSpeech
}

// firstPositive returns the first value greater than zero.
func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// writeChapterFiles writes chapter and chunk files concurrently.
func writeChapterFiles(ctx context.Context, dir string, chapters []bookworks.ChapterChunks, concurrency int) []chapterResult {
	if len(chapters) == 0 {
		return nil
	}

	if concurrency > len(chapters) {
		concurrency = len(chapters)
	}

	results := make([]chapterResult, len(chapters))
	var wg sync.WaitGroup
	jobs := make(chan int, len(chapters))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = chapterResult{
						Index: chapters[idx].Chapter.Index,
						Title: chapters[idx].Chapter.Title,
						Err:   ctx.Err(),
					}
					continue
				}
				results[idx] = writeChapter(dir, chapters[idx])
			}
		}()
	}

	for i := range chapters {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// writeChapter writes one whole-chapter file plus one file per chunk.
func writeChapter(dir string, cc bookworks.ChapterChunks) chapterResult {
	start := time.Now()
	result := chapterResult{Index: cc.Chapter.Index, Title: cc.Chapter.Title}

	path := filepath.Join(dir, fileutil.ChapterFileName(cc.Chapter.Title, cc.Chapter.Index))
	// #nosec G306 -- output files are meant to be readable
	if err := os.WriteFile(path, []byte(cc.Chapter.Body), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}
	result.ChapterPath = path
	result.Bytes = len(cc.Chapter.Body)

	for _, chunk := range cc.Chunks {
		chunkPath := filepath.Join(dir, fileutil.ChunkFileName(cc.Chapter.Title, chunk.ChapterIndex, chunk.Index))
		// #nosec G306 -- output files are meant to be readable
		if err := os.WriteFile(chunkPath, []byte(chunk.Content), filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
			result.Duration = time.Since(start)
			return result
		}
		result.Chunks++
		result.Bytes += len(chunk.Content)
	}

	result.Duration = time.Since(start)
	return result
}

// printChunkResults reports per-chapter outcomes and returns the number
// of failures.
func printChunkResults(results []chapterResult, dir string, quiet bool, env *Environment, logger zerolog.Logger, elapsed time.Duration) int {
	var succeeded, failed, chunks int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED chapter %d %q: %v\n", r.Index, r.Title, r.Err)
			continue
		}

		succeeded++
		chunks += r.Chunks
		logger.Debug().
			Int("chapter", r.Index).
			Str("title", r.Title).
			Int("chunks", r.Chunks).
			Int("bytes", r.Bytes).
			Dur("duration", r.Duration).
			Msg("chapter written")

		if quiet {
			continue
		}
		fmt.Fprintf(env.Stdout, "Created %s (%d chunks)\n", r.ChapterPath, r.Chunks)
	}

	logger.Info().
		Str("dir", dir).
		Int("chapters", succeeded).
		Int("chunks", chunks).
		Dur("duration", elapsed).
		Msg("chunking complete")

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d chapters, %d chunks\n", succeeded, chunks)
	}

	return failed
}
