package epub

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are elements that close the block under construction and open
// a new one.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Hr:         true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Figure:     true,
	atom.Figcaption: true,
}

// skipAtoms are elements whose text never reaches the output.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
	atom.Title:  true,
}

// headingMarkers maps heading elements to their Markdown prefix.
var headingMarkers = map[atom.Atom]string{
	atom.H1: "#",
	atom.H2: "##",
	atom.H3: "###",
	atom.H4: "####",
	atom.H5: "#####",
	atom.H6: "######",
}

// The tokenizer enters raw-text mode on <script>, <style>, and <title> even
// when the tag is self-closing, which would swallow everything after it.
// XHTML allows the self-closing form, so expand it before tokenizing.
var selfClosingRawTag = regexp.MustCompile(`(?is)<(script|style|title)\b([^>]*)/>`)

func expandSelfClosingRawTags(data []byte) []byte {
	if !selfClosingRawTag.Match(data) {
		return data
	}
	return selfClosingRawTag.ReplaceAll(data, []byte("<$1$2></$1>"))
}

// markdownFromXHTML flattens one XHTML content document into Markdown text:
// headings become #-prefixed lines, list items become "- " lines, and every
// other block element becomes a paragraph. Inline markup keeps only its text.
func markdownFromXHTML(data []byte) string {
	tz := html.NewTokenizer(bytes.NewReader(expandSelfClosingRawTags(stripBOM(data))))
	var c converter

	for {
		switch tz.Next() {
		case html.ErrorToken:
			// Tokenizing never fails on an in-memory reader; this is EOF.
			c.flush()
			return strings.Join(c.blocks, "\n\n")

		case html.StartTagToken:
			name, _ := tz.TagName()
			c.open(atom.Lookup(name))

		case html.SelfClosingTagToken:
			name, _ := tz.TagName()
			c.selfClose(atom.Lookup(name))

		case html.EndTagToken:
			name, _ := tz.TagName()
			c.close(atom.Lookup(name))

		case html.TextToken:
			c.text(string(tz.Text()))
		}
	}
}

// converter accumulates Markdown blocks from a token stream.
type converter struct {
	blocks []string
	cur    strings.Builder
	marker string // Markdown prefix for the block being built
	skip   int    // nesting depth inside skipAtoms elements
}

func (c *converter) open(a atom.Atom) {
	if skipAtoms[a] {
		c.skip++
		return
	}
	if c.skip > 0 {
		return
	}
	switch {
	case headingMarkers[a] != "":
		c.flush()
		c.marker = headingMarkers[a] + " "
	case a == atom.Li:
		c.flush()
		c.marker = "- "
	case a == atom.Br:
		c.lineBreak()
	case a == atom.Td || a == atom.Th:
		c.cellGap()
	case blockAtoms[a]:
		c.flush()
	}
}

func (c *converter) selfClose(a atom.Atom) {
	if skipAtoms[a] || c.skip > 0 {
		return
	}
	if a == atom.Br {
		c.lineBreak()
	} else if blockAtoms[a] {
		c.flush()
	}
}

func (c *converter) close(a atom.Atom) {
	if skipAtoms[a] {
		if c.skip > 0 {
			c.skip--
		}
		return
	}
	if c.skip > 0 {
		return
	}
	if headingMarkers[a] != "" || a == atom.Li {
		c.flush()
		c.marker = ""
		return
	}
	if blockAtoms[a] {
		c.flush()
	}
}

func (c *converter) text(raw string) {
	if c.skip > 0 {
		return
	}
	piece := collapseSpace(raw)
	if piece == "" {
		return
	}
	built := c.cur.String()
	if built == "" || strings.HasSuffix(built, " ") || strings.HasSuffix(built, "\n") {
		piece = strings.TrimLeft(piece, " ")
		if piece == "" {
			return
		}
	}
	c.cur.WriteString(piece)
}

// flush finalizes the block under construction. The marker is consumed by
// the first flush that emits text, so a block element nested inside a list
// item still picks up the item's "- " prefix.
func (c *converter) flush() {
	text := strings.TrimSpace(c.cur.String())
	c.cur.Reset()
	if text == "" {
		return
	}
	c.blocks = append(c.blocks, c.marker+text)
	c.marker = ""
}

// lineBreak keeps an explicit <br> as a soft line break within the block.
func (c *converter) lineBreak() {
	built := strings.TrimRight(c.cur.String(), " ")
	if built == "" || strings.HasSuffix(built, "\n") {
		return
	}
	c.cur.Reset()
	c.cur.WriteString(built)
	c.cur.WriteByte('\n')
}

// cellGap separates adjacent table cells with a single space, keeping each
// row on one line.
func (c *converter) cellGap() {
	built := c.cur.String()
	if built != "" && !strings.HasSuffix(built, " ") && !strings.HasSuffix(built, "\n") {
		c.cur.WriteByte(' ')
	}
}

// collapseSpace folds runs of whitespace into single spaces. A run at the
// start or end of the input is kept as one space so spacing between inline
// elements survives tokenization; all-whitespace input collapses to " ".
func collapseSpace(s string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inRun = true
			continue
		}
		if inRun && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inRun = false
		b.WriteRune(r)
	}

	out := b.String()
	if out == "" {
		if inRun {
			return " "
		}
		return ""
	}
	if isSpaceByte(s[0]) {
		out = " " + out
	}
	if inRun {
		out += " "
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
