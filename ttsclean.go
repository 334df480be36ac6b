package bookworks

import (
	"regexp"
	"strings"
)

// cleanupStep is one ordered rewrite in the speech cleanup pipeline.
type cleanupStep struct {
	pattern *regexp.Regexp
	repl    string
}

// speechCleanups strips constructs that text-to-speech engines read
// aloud: anchors, Pandoc attributes, raw HTML, link targets, emphasis
// markers, and publisher boilerplate. The steps run in order; generic
// rules (bare braces, bare tags) come after the specific forms they
// would otherwise swallow.
var speechCleanups = []cleanupStep{
	// Anchor spans and raw HTML blocks from EPUB extraction.
	{regexp.MustCompile(`\[\]\{#[^}]+\}`), ""},
	{regexp.MustCompile("```\\{=html\\}[\\s\\S]*?```"), ""},

	// Pandoc fenced divs and heading attributes.
	{regexp.MustCompile(`::: \{[^}]+\}`), ""},
	{regexp.MustCompile(`:::.*`), ""},
	{regexp.MustCompile(`(#+ .*?) \{[^}]+\}`), "$1"},

	// Images, cover markers, and leftover anchors.
	{regexp.MustCompile(`!\[\]\([^)]+\)`), ""},
	{regexp.MustCompile(`\{\.x-ebookmaker-cover\}`), ""},
	{regexp.MustCompile(`\{#[^}]+\}`), ""},
	{regexp.MustCompile(`\[.*?\]\{[^}]+\}`), ""},
	{regexp.MustCompile(`lang="[^"]+"`), ""},

	// Links read as their text; raw tags and attribute braces vanish.
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`<[^>]+>`), ""},
	{regexp.MustCompile(`\{[^}]+\}`), ""},

	// Emphasis unwraps to plain text.
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},
	{regexp.MustCompile(`__([^_]+)__`), "$1"},
	{regexp.MustCompile(`_([^_]+)_`), "$1"},

	// Footnote markers, list numbers, and Markdown escapes.
	{regexp.MustCompile(`\[\^[^\]]+\]`), ""},
	{regexp.MustCompile(`(?m)^\d+\.\s+`), ""},
	{regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!])"), "$1"},
	{regexp.MustCompile(`\\{2,}`), ""},

	// Project Gutenberg boilerplate lines.
	{regexp.MustCompile(`(?i)START OF THE PROJECT GUTENBERG EBOOK.*`), ""},
	{regexp.MustCompile(`(?i)END OF THE PROJECT GUTENBERG EBOOK.*`), ""},

	// Whitespace repair.
	{regexp.MustCompile(`(?m)\\$`), ""},
	{regexp.MustCompile(`  +`), " "},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// CleanForSpeech rewrites Markdown into plain prose suitable for
// narration. Markup that carries no spoken content is removed, links and
// emphasis collapse to their text, and whitespace is squeezed. The
// result is trimmed of surrounding whitespace.
func CleanForSpeech(content string) string {
	for _, step := range speechCleanups {
		content = step.pattern.ReplaceAllString(content, step.repl)
	}
	return strings.TrimSpace(content)
}
