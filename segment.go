package bookworks

import (
	"regexp"
	"strings"
)

// Fallback titles used when a document or chapter has no usable heading.
const (
	UntitledDocument = "Untitled Document"
	UntitledChapter  = "Untitled Chapter"
	PrefaceTitle     = "Preface"
)

var (
	// chapterHeadingPattern matches level-2 ATX headings, which open
	// chapters. Deeper headings stay inside the current chapter.
	chapterHeadingPattern = regexp.MustCompile(`^##[ \t]`)

	// firstHeadingPattern captures the document's first level-1 heading.
	firstHeadingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
)

// isChapterHeading reports whether a line opens a new chapter.
func isChapterHeading(line string) bool {
	return chapterHeadingPattern.MatchString(line)
}

// chapterTitle extracts the title text from a heading line.
func chapterTitle(heading string) string {
	title := strings.TrimSpace(strings.TrimLeft(heading, "#"))
	if title == "" {
		return UntitledChapter
	}
	return title
}

// DocumentTitle returns the text of the first level-1 heading in the
// document, or UntitledDocument when there is none.
func DocumentTitle(text string) string {
	if m := firstHeadingPattern.FindStringSubmatch(text); len(m) >= 2 {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return UntitledDocument
}

// SegmentChapters splits a document at level-2 headings. Text before the
// first heading becomes chapter 0, titled "Preface", unless it is
// whitespace-only. Each heading opens a chapter numbered from 1 that
// keeps the heading as the first line of its body. Headings inside
// fenced code blocks do not split. A document with no level-2 headings
// yields a single chapter titled after the document's level-1 heading.
// Chapter bodies are trimmed of surrounding whitespace.
//
// Whitespace-only input yields no chapters.
func SegmentChapters(text string) []Chapter {
	normalized := normalizeNewlines(text)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	lines := strings.Split(normalized, "\n")

	var headings []int
	inFence := false
	for i, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if !inFence && isChapterHeading(line) {
			headings = append(headings, i)
		}
	}

	if len(headings) == 0 {
		return []Chapter{{
			Index: 1,
			Title: DocumentTitle(normalized),
			Body:  strings.TrimSpace(normalized),
		}}
	}

	var chapters []Chapter
	if preface := strings.Join(lines[:headings[0]], "\n"); strings.TrimSpace(preface) != "" {
		chapters = append(chapters, Chapter{
			Index: 0,
			Title: PrefaceTitle,
			Body:  strings.TrimSpace(preface),
		})
	}

	for n, start := range headings {
		end := len(lines)
		if n+1 < len(headings) {
			end = headings[n+1]
		}
		chapters = append(chapters, Chapter{
			Index: n + 1,
			Title: chapterTitle(lines[start]),
			Body:  strings.TrimSpace(strings.Join(lines[start:end], "\n")),
		})
	}

	return chapters
}
