package bookworks

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestChunkChapterSingleChunk(t *testing.T) {
	ch := Chapter{Index: 3, Title: "Three", Body: "Short body that fits."}

	got, err := ChunkChapter(ch, DefaultChunkPolicy())
	if err != nil {
		t.Fatalf("ChunkChapter() error = %v", err)
	}
	want := []Chunk{{ChapterIndex: 3, Index: 1, Content: "Short body that fits."}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChunkChapter() = %#v, want %#v", got, want)
	}
}

func TestChunkChapterEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   \n\t\n"} {
		got, err := ChunkChapter(Chapter{Index: 1, Body: body}, DefaultChunkPolicy())
		if err != nil {
			t.Fatalf("ChunkChapter() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ChunkChapter(%q) = %#v, want no chunks", body, got)
		}
	}
}

func TestChunkChapterPolicyValidation(t *testing.T) {
	tests := []struct {
		name    string
		policy  ChunkPolicy
		wantErr error
	}{
		{"zero max", ChunkPolicy{MaxChunkSize: 0, MinChunkSize: 10}, ErrInvalidChunkSize},
		{"negative max", ChunkPolicy{MaxChunkSize: -5, MinChunkSize: 10}, ErrInvalidChunkSize},
		{"zero min", ChunkPolicy{MaxChunkSize: 100, MinChunkSize: 0}, ErrInvalidChunkSize},
		{"negative min", ChunkPolicy{MaxChunkSize: 100, MinChunkSize: -1}, ErrInvalidChunkSize},
		{"min equals max", ChunkPolicy{MaxChunkSize: 100, MinChunkSize: 100}, ErrChunkSizeOrder},
		{"min above max", ChunkPolicy{MaxChunkSize: 100, MinChunkSize: 200}, ErrChunkSizeOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation fails fast even when the body would need no work.
			_, err := ChunkChapter(Chapter{Body: ""}, tt.policy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ChunkChapter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultChunkPolicy(t *testing.T) {
	p := DefaultChunkPolicy()
	if p.MaxChunkSize != 2000 || p.MinChunkSize != 500 {
		t.Errorf("DefaultChunkPolicy() = %+v, want max 2000 min 500", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("DefaultChunkPolicy().Validate() = %v", err)
	}
}

func TestChunkChapterParagraphPacking(t *testing.T) {
	// Ten 80-byte paragraphs with a 200/50 policy: the packer fits two
	// per chunk (80+2+80 = 162; adding a third would reach 244 > 200).
	para := strings.Repeat("x", 80)
	paras := make([]string, 10)
	for i := range paras {
		paras[i] = para
	}
	body := strings.Join(paras, "\n\n")

	policy := ChunkPolicy{MaxChunkSize: 200, MinChunkSize: 50}
	got, err := ChunkChapter(Chapter{Index: 1, Body: body}, policy)
	if err != nil {
		t.Fatalf("ChunkChapter() error = %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("got %d chunks, want 5", len(got))
	}
	for i, c := range got {
		if len(c.Content) > policy.MaxChunkSize {
			t.Errorf("chunk %d is %d bytes, over max %d", i, len(c.Content), policy.MaxChunkSize)
		}
		if c.Index != i+1 {
			t.Errorf("chunk %d has Index %d, want %d", i, c.Index, i+1)
		}
		if c.ChapterIndex != 1 {
			t.Errorf("chunk %d has ChapterIndex %d, want 1", i, c.ChapterIndex)
		}
	}

	// Paragraph chunks reassemble to the exact body.
	contents := make([]string, len(got))
	for i, c := range got {
		contents[i] = c.Content
	}
	if rejoined := strings.Join(contents, "\n\n"); rejoined != body {
		t.Errorf("rejoined chunks differ from body:\n%q\n%q", rejoined, body)
	}
}

func TestChunkChapterSentenceFallback(t *testing.T) {
	// One paragraph of 20 ten-byte sentences, no blank lines. Paragraph
	// packing cannot split it, so the sentence phase takes over.
	sentence := "aaaaaaaaa." // 10 bytes
	body := strings.TrimSpace(strings.Repeat(sentence+" ", 20))
	if len(body) != 219 {
		t.Fatalf("fixture length = %d, want 219", len(body))
	}

	policy := ChunkPolicy{MaxChunkSize: 100, MinChunkSize: 30}
	got, err := ChunkChapter(Chapter{Index: 2, Body: body}, policy)
	if err != nil {
		t.Fatalf("ChunkChapter() error = %v", err)
	}

	if len(got) < 3 {
		t.Fatalf("got %d chunks, want at least 3", len(got))
	}
	for i, c := range got {
		if len(c.Content) > policy.MaxChunkSize {
			t.Errorf("chunk %d is %d bytes, over max %d", i, len(c.Content), policy.MaxChunkSize)
		}
		if strings.Contains(c.Content, "\n") {
			t.Errorf("chunk %d contains a newline: %q", i, c.Content)
		}
	}

	// Sentence chunks rejoin with single spaces to the original text.
	contents := make([]string, len(got))
	for i, c := range got {
		contents[i] = c.Content
	}
	if rejoined := strings.Join(contents, " "); rejoined != body {
		t.Errorf("rejoined sentences differ:\n%q\n%q", rejoined, body)
	}
}

func TestChunkChapterOversizedSentenceKeptWhole(t *testing.T) {
	// A short paragraph followed by a single sentence far over the max.
	// The gate refuses to close the first chunk before MinChunkSize, so
	// the oversized sentence lands in the same chunk, which then has no
	// sentence boundary to split at and is emitted as-is.
	long := strings.Repeat("y", 150)
	body := strings.Repeat("x", 30) + "\n\n" + long

	policy := ChunkPolicy{MaxChunkSize: 100, MinChunkSize: 50}
	got, err := ChunkChapter(Chapter{Index: 1, Body: body}, policy)
	if err != nil {
		t.Fatalf("ChunkChapter() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0].Content != body {
		t.Errorf("oversized content altered:\n%q\n%q", got[0].Content, body)
	}
}

func TestChunkChapterMinSizeGate(t *testing.T) {
	// Three paragraphs: 60 + 60 + 120 bytes with max 130, min 100.
	// After two paragraphs (122 bytes) the third would overflow, and the
	// current chunk has passed the minimum, so it closes.
	body := strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 60) + "\n\n" + strings.Repeat("c", 120)

	policy := ChunkPolicy{MaxChunkSize: 130, MinChunkSize: 100}
	got, err := ChunkChapter(Chapter{Index: 1, Body: body}, policy)
	if err != nil {
		t.Fatalf("ChunkChapter() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if want := strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 60); got[0].Content != want {
		t.Errorf("first chunk = %d bytes, want the two short paragraphs", len(got[0].Content))
	}
	if want := strings.Repeat("c", 120); got[1].Content != want {
		t.Errorf("second chunk = %d bytes, want the long paragraph", len(got[1].Content))
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "terminators with spaces",
			input:    "One. Two! Three? Four.",
			expected: []string{"One.", "Two!", "Three?", "Four."},
		},
		{
			name:     "ellipsis splits after the run",
			input:    "Wait... done. End",
			expected: []string{"Wait...", "done.", "End"},
		},
		{
			name:     "whitespace run consumed",
			input:    "A.  \n\tB.",
			expected: []string{"A.", "B."},
		},
		{
			name:     "no terminator yields one sentence",
			input:    "no punctuation here",
			expected: []string{"no punctuation here"},
		},
		{
			name:     "terminator at end keeps sentence",
			input:    "Only one.",
			expected: []string{"Only one."},
		},
		{
			name:     "period without space does not split",
			input:    "example.com stays whole",
			expected: []string{"example.com stays whole"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitSentences(%q) = %#v, want %#v", tt.input, got, tt.expected)
			}
		})
	}
}
