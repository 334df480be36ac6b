// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForPandocNotFound returns hints for a missing pandoc binary.
func ForPandocNotFound() string {
	return format("install pandoc from https://pandoc.org/installing.html, or check PATH")
}

// ForTimeout returns a hint about increasing the timeout for slow compiles.
func ForTimeout() string {
	return format("for large books, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-bookworks/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-bookworks) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-bookworks") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForChunkPolicy returns a hint for invalid chunk size bounds.
func ForChunkPolicy() string {
	return format("--min-chunk must be positive and below --max-chunk")
}

// ForEmptyDocument returns a hint for documents with no publishable text.
func ForEmptyDocument() string {
	return format("the input contains no text after front matter removal")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
