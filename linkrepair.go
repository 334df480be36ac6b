package bookworks

import "strings"

// linkState identifies where a scan sits inside a Markdown link construct.
type linkState int

const (
	linkNone linkState = iota // outside any link construct
	linkText                  // inside the [bracketed text]
	linkGap                   // after ], before the opening parenthesis
	linkURL                   // inside the (url)
)

// linkResolution reports how a line-spanning construct resolved on a
// continuation line.
type linkResolution int

const (
	linkOpen      linkResolution = iota // still unclosed at end of line
	linkCompleted                       // closed as a full [text](url) link
	linkFizzled                         // the gap was not followed by (
)

// linkScan carries scanner state across the bytes of one logical line.
// Backtick code spans shield brackets and parentheses; an unclosed span
// shields the rest of its line.
type linkScan struct {
	state  linkState
	depth  int // unmatched [ count while in linkText
	inCode bool
}

// step advances the scan by one byte. Gap bytes are handled by callers,
// which need lookahead the scanner does not have.
func (s *linkScan) step(c byte) {
	if c == '`' && s.state != linkURL {
		s.inCode = !s.inCode
		return
	}
	if s.inCode {
		return
	}
	switch s.state {
	case linkNone:
		if c == '[' {
			s.state = linkText
			s.depth = 1
		}
	case linkText:
		switch c {
		case '[':
			s.depth++
		case ']':
			s.depth--
			if s.depth == 0 {
				s.state = linkGap
			}
		}
	case linkURL:
		if c == ')' {
			s.state = linkNone
		}
	}
}

// scanLine scans a fresh line and returns the state at end of line. A
// non-linkNone result means a link construct is still open and may
// continue on the next line.
func scanLine(line string) linkScan {
	var s linkScan
	for i := 0; i < len(line); i++ {
		c := line[i]
		if s.state == linkGap {
			if c == '(' {
				s.state = linkURL
				continue
			}
			if (c == ' ' || c == '\t') && strings.TrimSpace(line[i:]) == "" {
				break // gap may continue on the next line
			}
			// Not a link; re-examine the byte as ordinary text.
			s.state = linkNone
			s.step(c)
			continue
		}
		s.step(c)
	}
	return s
}

// continueScan resumes a scan on the next line of a spanning construct.
// Once the construct closes, the rest of the line is left uninterpreted.
func continueScan(s linkScan, line string) (linkScan, linkResolution) {
	s.inCode = false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if s.state == linkGap {
			if c == '(' {
				s.state = linkURL
				continue
			}
			if (c == ' ' || c == '\t') && strings.TrimSpace(line[i:]) == "" {
				return s, linkOpen
			}
			return s, linkFizzled
		}
		s.step(c)
		if s.state == linkNone {
			return s, linkCompleted
		}
	}
	return s, linkOpen
}

// linkJoin accumulates a link construct that spans physical lines. raw
// keeps the original lines so an unresolved construct can be emitted
// exactly as it was.
type linkJoin struct {
	raw     []string
	logical string
	scan    linkScan
}

// join appends a continuation fragment to the logical line. A break
// inside the bracketed text becomes a single space; breaks in the gap or
// the URL join without one.
func (j *linkJoin) join(fragment string) string {
	sep := ""
	if j.scan.state == linkText {
		sep = " "
	}
	return strings.TrimRight(j.logical, " \t") + sep + fragment
}

// RepairLinks rejoins Markdown links whose [text] and (url) parts were
// split across line breaks, a common artifact of EPUB extraction. Breaks
// inside the bracketed text are replaced with a single space; breaks
// between ] and ( or inside the URL close up entirely. Whitespace-only
// lines inside a split link are absorbed.
//
// Lines inside fenced code blocks pass through verbatim. A candidate that
// never completes as a link — the text ends, the file ends, a fence
// starts — is emitted exactly as it was read, so the function never
// corrupts prose and never fails. Line endings are normalized to \n.
func RepairLinks(text string) string {
	lines := strings.Split(normalizeNewlines(text), "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	var pending *linkJoin

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if inFence {
			out = append(out, line)
			if isFenceDelimiter(line) {
				inFence = false
			}
			continue
		}

		if isFenceDelimiter(line) {
			if pending != nil {
				out = append(out, pending.raw...)
				pending = nil
			}
			out = append(out, line)
			inFence = true
			continue
		}

		if pending == nil {
			scan := scanLine(line)
			if scan.state == linkNone {
				out = append(out, line)
				continue
			}
			pending = &linkJoin{raw: []string{line}, logical: line, scan: scan}
			continue
		}

		if isBlankLine(line) {
			pending.raw = append(pending.raw, line)
			continue
		}

		fragment := strings.TrimLeft(line, " \t")
		scan, res := continueScan(pending.scan, fragment)
		switch res {
		case linkFizzled:
			// Not a link after all; restore the buffered lines and
			// reconsider this line from scratch.
			out = append(out, pending.raw...)
			pending = nil
			i--
		case linkCompleted:
			out = append(out, pending.join(fragment))
			pending = nil
		case linkOpen:
			pending.logical = pending.join(fragment)
			pending.raw = append(pending.raw, line)
			pending.scan = scan
		}
	}

	if pending != nil {
		out = append(out, pending.raw...)
	}

	return strings.Join(out, "\n")
}
