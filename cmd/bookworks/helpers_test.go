package main

// Test infrastructure shared across command tests: an in-memory
// Environment and a fake Pipeline so commands run without the real
// service or pandoc.

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	bookworks "github.com/alnah/go-bookworks"
)

// fakePipeline implements Pipeline with canned responses.
type fakePipeline struct {
	prepared   string
	prepareErr error

	chapters []bookworks.ChapterChunks
	chunkErr error

	publishErr error

	// Captured inputs for assertions.
	prepareDoc  bookworks.Document
	chunkDoc    bookworks.Document
	chunkPolicy bookworks.ChunkPolicy
	publishDoc  bookworks.Document
	publishOpts bookworks.PublishOptions
}

func (f *fakePipeline) Prepare(_ context.Context, doc bookworks.Document) (string, error) {
	f.prepareDoc = doc
	if f.prepareErr != nil {
		return "", f.prepareErr
	}
	if f.prepared != "" {
		return f.prepared, nil
	}
	// Mirror the real service: whitespace-only input is a no-op.
	if strings.TrimSpace(doc.Content) == "" {
		return "", nil
	}
	return doc.Content, nil
}

func (f *fakePipeline) ChunkDocument(_ context.Context, doc bookworks.Document, policy bookworks.ChunkPolicy) ([]bookworks.ChapterChunks, error) {
	f.chunkDoc = doc
	f.chunkPolicy = policy
	if f.chunkErr != nil {
		return nil, f.chunkErr
	}
	return f.chapters, nil
}

func (f *fakePipeline) Publish(_ context.Context, doc bookworks.Document, opts bookworks.PublishOptions) error {
	f.publishDoc = doc
	f.publishOpts = opts
	return f.publishErr
}

// testEnv bundles an Environment with its capture buffers.
type testEnv struct {
	env     *Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	fake    *fakePipeline
	options []bookworks.Option
}

// newTestEnv builds an Environment whose service is the given fake and
// whose streams are buffers.
func newTestEnv(fake *fakePipeline) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		fake:   fake,
	}
	te.env = &Environment{
		Now:    func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Logger: zerolog.Nop(),
		NewService: func(opts ...bookworks.Option) Pipeline {
			te.options = opts
			return fake
		},
	}
	return te
}
