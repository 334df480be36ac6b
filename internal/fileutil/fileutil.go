// Package fileutil provides file and path helpers shared by the CLI:
// output naming derived from document titles, plus small predicates
// used when resolving flag values.
package fileutil

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Characters that break file names on at least one supported platform.
var (
	unsafeFilenameChars = regexp.MustCompile(`[\r\n\t/\\:*?"<>|]`)
	hyphenRuns          = regexp.MustCompile(`-+`)
)

// SanitizeTitle converts a document title into a file name stem.
// Problematic characters become hyphens, hyphen runs collapse, and a
// title that sanitizes away entirely falls back to "untitled".
func SanitizeTitle(title string) string {
	s := unsafeFilenameChars.ReplaceAllString(title, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "- ")
	if s == "" {
		return "untitled"
	}
	return s
}

// SlugTitle builds a file name stem from a title: sanitized, with
// spaces turned into underscores.
func SlugTitle(title string) string {
	return strings.ReplaceAll(SanitizeTitle(title), " ", "_")
}

// Slug length caps keep file names readable when chapter titles run long.
const (
	chapterSlugMax = 50
	chunkSlugMax   = 40
)

// ChapterFileName names the output file for a whole chapter. The index
// is zero-padded so files sort in reading order.
func ChapterFileName(chapterTitle string, chapter int) string {
	return fmt.Sprintf("%02d_%s.md", chapter, truncateRunes(SlugTitle(chapterTitle), chapterSlugMax))
}

// ChunkFileName names the output file for one chunk of a chapter.
func ChunkFileName(chapterTitle string, chapter, part int) string {
	return fmt.Sprintf("%02d_%02d_%s.md", chapter, part, truncateRunes(SlugTitle(chapterTitle), chunkSlugMax))
}

// truncateRunes caps s at n runes without splitting a multibyte
// character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// EpubFileName names the EPUB produced for a document title.
func EpubFileName(title string) string {
	return SanitizeTitle(title) + ".epub"
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather
// than a bare name. Anything containing a path separator counts.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS rather than a
// style name or a path. A brace is signal enough for the values the
// CLI accepts.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}
