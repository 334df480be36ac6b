package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bookworks "github.com/alnah/go-bookworks"
)

func twoChapterResult() []bookworks.ChapterChunks {
	return []bookworks.ChapterChunks{
		{
			Chapter: bookworks.Chapter{Index: 1, Title: "One", Body: "## One\n\nfirst body"},
			Chunks: []bookworks.Chunk{
				{ChapterIndex: 1, Index: 1, Content: "## One\n\nfirst"},
				{ChapterIndex: 1, Index: 2, Content: "body"},
			},
		},
		{
			Chapter: bookworks.Chapter{Index: 2, Title: "Two", Body: "## Two\n\nsecond body"},
			Chunks: []bookworks.Chunk{
				{ChapterIndex: 2, Index: 1, Content: "## Two\n\nsecond body"},
			},
		},
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunChunkWritesChapterAndChunkFiles(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chapters: twoChapterResult()}
	te := newTestEnv(fake)

	input := writeInput(t, "# My Book\n\n## One\n\nfirst body\n\n## Two\n\nsecond body\n")
	outDir := t.TempDir()

	err := runChunk(context.Background(), []string{"-o", outDir, input}, te.env)
	if err != nil {
		t.Fatalf("runChunk() err = %v\nstderr: %s", err, te.stderr.String())
	}

	docDir := filepath.Join(outDir, "My_Book")
	wantFiles := []string{
		"01_One.md",
		"01_01_One.md",
		"01_02_One.md",
		"02_Two.md",
		"02_01_Two.md",
	}
	for _, name := range wantFiles {
		path := filepath.Join(docDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(docDir, "01_02_One.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "body" {
		t.Errorf("chunk file content = %q, want %q", data, "body")
	}

	if !strings.Contains(te.stdout.String(), "2 chapters, 3 chunks") {
		t.Errorf("stdout should summarize chapters and chunks, got %q", te.stdout.String())
	}
}

func TestRunChunkPolicyFromFlags(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chapters: twoChapterResult()}
	te := newTestEnv(fake)

	input := writeInput(t, "body\n")
	args := []string{"-o", t.TempDir(), "--max-chunk", "3000", "--min-chunk", "900", input}

	if err := runChunk(context.Background(), args, te.env); err != nil {
		t.Fatalf("runChunk() err = %v", err)
	}

	want := bookworks.ChunkPolicy{MaxChunkSize: 3000, MinChunkSize: 900}
	if fake.chunkPolicy != want {
		t.Errorf("policy = %+v, want %+v", fake.chunkPolicy, want)
	}
}

func TestRunChunkDefaultPolicy(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chapters: twoChapterResult()}
	te := newTestEnv(fake)

	input := writeInput(t, "body\n")
	if err := runChunk(context.Background(), []string{"-o", t.TempDir(), input}, te.env); err != nil {
		t.Fatalf("runChunk() err = %v", err)
	}

	if fake.chunkPolicy != bookworks.DefaultChunkPolicy() {
		t.Errorf("policy = %+v, want defaults", fake.chunkPolicy)
	}
}

func TestRunChunkSpeechCleaningDefaultOn(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chapters: twoChapterResult()}
	te := newTestEnv(fake)

	input := writeInput(t, "body\n")
	if err := runChunk(context.Background(), []string{"-o", t.TempDir(), input}, te.env); err != nil {
		t.Fatalf("runChunk() err = %v", err)
	}

	// DefaultConfig enables speech cleanup, so the service must receive
	// the option.
	if len(te.options) != 1 {
		t.Errorf("service options = %d, want 1 (speech cleaning)", len(te.options))
	}
}

func TestRunChunkSpeechCleaningFlagOverride(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chapters: twoChapterResult()}
	te := newTestEnv(fake)

	input := writeInput(t, "body\n")
	args := []string{"-o", t.TempDir(), "--tts-clean=false", input}
	if err := runChunk(context.Background(), args, te.env); err != nil {
		t.Fatalf("runChunk() err = %v", err)
	}

	if len(te.options) != 0 {
		t.Errorf("service options = %d, want 0 with --tts-clean=false", len(te.options))
	}
}

func TestRunChunkEmptyDocument(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{} // no chapters
	te := newTestEnv(fake)

	input := writeInput(t, "\n\n")
	if err := runChunk(context.Background(), []string{"-o", t.TempDir(), input}, te.env); err != nil {
		t.Fatalf("runChunk() err = %v", err)
	}

	if !strings.Contains(te.stdout.String(), "Nothing to chunk") {
		t.Errorf("stdout = %q, want empty-document notice", te.stdout.String())
	}
}

func TestRunChunkInvalidPolicyGetsHint(t *testing.T) {
	t.Parallel()
	fake := &fakePipeline{chunkErr: bookworks.ErrChunkSizeOrder}
	te := newTestEnv(fake)

	input := writeInput(t, "body\n")
	args := []string{"-o", t.TempDir(), "--max-chunk", "100", "--min-chunk", "500", input}

	err := runChunk(context.Background(), args, te.env)
	if !errors.Is(err, bookworks.ErrChunkSizeOrder) {
		t.Fatalf("runChunk() err = %v, want ErrChunkSizeOrder", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error %q should carry a hint", err)
	}
}

func TestRunChunkInvalidWorkers(t *testing.T) {
	t.Parallel()
	te := newTestEnv(&fakePipeline{})

	err := runChunk(context.Background(), []string{"-w", "-1", "in.md"}, te.env)
	if !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("runChunk() err = %v, want ErrInvalidWorkerCount", err)
	}
}

func TestWriteChapterFilesOrderStable(t *testing.T) {
	t.Parallel()
	chapters := make([]bookworks.ChapterChunks, 6)
	for i := range chapters {
		chapters[i] = bookworks.ChapterChunks{
			Chapter: bookworks.Chapter{Index: i + 1, Title: "Ch", Body: "body"},
		}
	}

	results := writeChapterFiles(context.Background(), t.TempDir(), chapters, 4)

	if len(results) != len(chapters) {
		t.Fatalf("results = %d, want %d", len(results), len(chapters))
	}
	for i, r := range results {
		if r.Index != i+1 {
			t.Errorf("results[%d].Index = %d, want %d (order must match chapters)", i, r.Index, i+1)
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
	}
}

func TestWriteChapterFilesCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chapters := []bookworks.ChapterChunks{
		{Chapter: bookworks.Chapter{Index: 1, Title: "Ch", Body: "body"}},
	}
	results := writeChapterFiles(ctx, t.TempDir(), chapters, 1)

	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("results = %+v, want context.Canceled", results)
	}
}

func TestSpeechCleaning(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		flags        chunkFlags
		configSpeech bool
		want         bool
	}{
		{"config on, flag unset", chunkFlags{ttsClean: true}, true, true},
		{"config off, flag unset", chunkFlags{ttsClean: true}, false, false},
		{"explicit off beats config on", chunkFlags{ttsClean: false, ttsCleanSet: true}, true, false},
		{"explicit on beats config off", chunkFlags{ttsClean: true, ttsCleanSet: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := speechCleaning(&tt.flags, tt.configSpeech); got != tt.want {
				t.Errorf("speechCleaning() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstPositive(t *testing.T) {
	t.Parallel()
	if got := firstPositive(0, 0, 7); got != 7 {
		t.Errorf("firstPositive = %d, want 7", got)
	}
	if got := firstPositive(3, 9); got != 3 {
		t.Errorf("firstPositive = %d, want 3", got)
	}
	if got := firstPositive(0, 0); got != 0 {
		t.Errorf("firstPositive = %d, want 0", got)
	}
}
