package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title  string
	author string
	date   string
}

// prepareFlags holds all flags for the prepare command.
type prepareFlags struct {
	common commonFlags
	output string
}

// chunkFlags holds all flags for the chunk command. ttsCleanSet
// records whether --tts-clean was given explicitly, so a config file
// can still decide the default.
type chunkFlags struct {
	common      commonFlags
	title       string
	output      string
	workers     int
	maxChunk    int
	minChunk    int
	ttsClean    bool
	ttsCleanSet bool
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common       commonFlags
	document     documentFlags
	output       string
	style        string
	noTOC        bool
	chapterLevel int
	timeout      string
	debug        bool
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common commonFlags
	output string
	style  string
	title  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress and timing")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = front matter, then first heading)")
	fs.StringVar(&f.author, "author", "", "author name")
	fs.StringVar(&f.date, "date", "", "publication date: \"auto\", \"auto:FORMAT\", or literal")
}

// parsePrepareFlags parses prepare command flags and returns positional args.
func parsePrepareFlags(args []string) (*prepareFlags, []string, error) {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	f := &prepareFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printPrepareUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}

	return f, fs.Args(), nil
}

// parseChunkFlags parses chunk command flags and returns positional args.
func parseChunkFlags(args []string) (*chunkFlags, []string, error) {
	fs := flag.NewFlagSet("chunk", flag.ContinueOnError)
	f := &chunkFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.maxChunk, "max-chunk", 0, "maximum chunk size in bytes (0 = default)")
	fs.IntVar(&f.minChunk, "min-chunk", 0, "minimum chunk size in bytes (0 = default)")
	fs.BoolVar(&f.ttsClean, "tts-clean", true, "strip markup and boilerplate for text-to-speech")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = front matter, then first heading)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printChunkUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}
	f.ttsCleanSet = fs.Changed("tts-clean")

	return f, fs.Args(), nil
}

// parsePublishFlags parses publish command flags and returns positional args.
func parsePublishFlags(args []string) (*publishFlags, []string, error) {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	f := &publishFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output .epub file or directory")
	fs.StringVarP(&f.style, "style", "s", "", "style name, CSS file path, or inline CSS")
	fs.BoolVar(&f.noTOC, "no-toc", false, "disable the table of contents")
	fs.IntVar(&f.chapterLevel, "chapter-level", 0, "heading level that opens a chapter (default 2)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "compilation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.debug, "debug", false, "keep the processed Markdown next to the EPUB")
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)

	fs.Usage = func() { printPublishUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}

	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string) (*previewFlags, []string, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	f := &previewFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output .html file or directory")
	fs.StringVarP(&f.style, "style", "s", "", "style name, CSS file path, or inline CSS")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = front matter, then first heading)")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printPreviewUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapParseError(err)
	}

	return f, fs.Args(), nil
}

// wrapParseError marks flag parsing failures so they map to the usage
// exit code. Help requests pass through unmarked.
func wrapParseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBadFlags, err)
}
