package bookworks

import (
	"strings"
	"unicode"
)

// ChunkChapter splits a chapter body into chunks bounded by policy.
//
// Packing is greedy and two-phase. Paragraphs (text between blank lines)
// are accumulated until adding the next one would exceed MaxChunkSize
// while the current chunk has already reached MinChunkSize; paragraph
// chunks rejoin with the blank line that separated them, so their text
// is byte-identical to the source. Any chunk still over the maximum —
// a single oversized paragraph — is repacked along sentence boundaries,
// rejoining with single spaces. A lone sentence longer than MaxChunkSize
// is emitted unsplit rather than truncated mid-sentence.
//
// A whitespace-only body yields no chunks, and a body within MaxChunkSize
// yields exactly one chunk containing the body unchanged. Chunk indexes
// are 1-based and carry the chapter's index.
//
// The policy is validated first; no partial output is produced on error.
func ChunkChapter(ch Chapter, policy ChunkPolicy) ([]Chunk, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	bodies := chunkBody(ch.Body, policy)
	if len(bodies) == 0 {
		return nil, nil
	}

	chunks := make([]Chunk, len(bodies))
	for i, content := range bodies {
		chunks[i] = Chunk{
			ChapterIndex: ch.Index,
			Index:        i + 1,
			Content:      content,
		}
	}
	return chunks, nil
}

// chunkBody implements the two-phase split. The policy must already be
// validated.
func chunkBody(body string, p ChunkPolicy) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	if len(body) <= p.MaxChunkSize {
		return []string{body}
	}

	var final []string
	for _, chunk := range packParts(strings.Split(body, "\n\n"), "\n\n", p) {
		if len(chunk) > p.MaxChunkSize {
			final = append(final, packParts(splitSentences(chunk), " ", p)...)
		} else {
			final = append(final, chunk)
		}
	}
	return final
}

// packParts greedily accumulates parts into chunks. A chunk closes when
// the next part would push it past MaxChunkSize and it has reached
// MinChunkSize; a part that alone exceeds the maximum therefore stays
// whole. Parts within a chunk rejoin with sep.
func packParts(parts []string, sep string, p ChunkPolicy) []string {
	var chunks []string
	var cur string

	for _, part := range parts {
		if len(cur)+len(part)+len(sep) > p.MaxChunkSize && len(cur) >= p.MinChunkSize {
			chunks = append(chunks, cur)
			cur = part
			continue
		}
		if cur != "" {
			cur += sep + part
		} else {
			cur = part
		}
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

// splitSentences cuts text after runs of sentence terminators followed by
// whitespace, consuming the whitespace. The trailing fragment is kept
// even without a terminator.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string

	start := 0
	i := 0
	for i < len(runes) {
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// isSentenceEnd reports whether r terminates a sentence.
func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
