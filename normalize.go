package bookworks

import (
	"regexp"
	"strings"
)

// Markdown structural patterns shared by the pipeline stages.
var (
	// fenceDelimiterPattern matches code fence markers at column zero.
	fenceDelimiterPattern = regexp.MustCompile("^(```|~~~)")

	// listItemPattern matches bullet and ordered list markers.
	listItemPattern = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d{1,9}[.)])\s`)
)

// normalizeNewlines converts CRLF line endings to LF.
func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// isBlankLine reports whether a line is empty or whitespace-only.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isFenceDelimiter reports whether a line opens or closes a fenced code
// block.
func isFenceDelimiter(line string) bool {
	return fenceDelimiterPattern.MatchString(line)
}

// isListItem reports whether a line starts a list item.
func isListItem(line string) bool {
	return listItemPattern.MatchString(line)
}

// isIndented reports whether a line starts with whitespace, which inside
// a list region marks a continuation of the current item.
func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// blockState tracks which kind of region the normalizer is inside.
type blockState int

const (
	stateProse blockState = iota
	stateFence
	stateList
)

// NormalizeParagraphs collapses every run of blank lines between blocks
// to exactly one blank line and trims leading and trailing blank lines.
// Two regions are exempt and keep their internal structure verbatim:
// fenced code blocks, and list regions, where blank lines separating
// items or indented continuations are part of the list. Blank lines are
// only ever removed, never inserted, so adjacent lines stay adjacent.
// Line endings are normalized to \n.
//
// The result is stable: normalizing a second time changes nothing.
func NormalizeParagraphs(text string) string {
	lines := strings.Split(normalizeNewlines(text), "\n")
	out := make([]string, 0, len(lines))

	state := stateProse
	pendingBreak := false

	emit := func(line string) {
		if pendingBreak {
			if len(out) > 0 {
				out = append(out, "")
			}
			pendingBreak = false
		}
		out = append(out, line)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if state == stateFence {
			out = append(out, line)
			if isFenceDelimiter(line) {
				state = stateProse
			}
			continue
		}

		if isBlankLine(line) {
			j := i
			for j < len(lines) && isBlankLine(lines[j]) {
				j++
			}
			if state == stateList && j < len(lines) && (isListItem(lines[j]) || isIndented(lines[j])) {
				// Blank lines between items of the same list are
				// structure, not paragraph breaks.
				out = append(out, lines[i:j]...)
			} else {
				pendingBreak = true
				state = stateProse
			}
			i = j - 1
			continue
		}

		if isFenceDelimiter(line) {
			emit(line)
			state = stateFence
			continue
		}

		if isListItem(line) {
			emit(line)
			state = stateList
			continue
		}

		if state == stateList && isIndented(line) {
			emit(line)
			continue
		}

		emit(line)
		state = stateProse
	}

	return strings.Join(out, "\n")
}
