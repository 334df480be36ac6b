package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  prepare    Repair and normalize a manuscript")
	fmt.Fprintln(w, "  chunk      Split a manuscript into TTS-sized chapter chunks")
	fmt.Fprintln(w, "  publish    Compile a manuscript to EPUB via pandoc")
	fmt.Fprintln(w, "  preview    Render a manuscript to a standalone HTML page")
	fmt.Fprintln(w, "  doctor     Check pandoc and environment readiness")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'bookworks help <command>' for details on a specific command.")
}

// printPrepareUsage prints usage for the prepare command.
func printPrepareUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks prepare <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Repair split links and normalize paragraph spacing. EPUB inputs are")
	fmt.Fprintln(w, "extracted to Markdown with their metadata as front matter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown or EPUB file (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>    Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show detailed progress and timing")
}

// printChunkUsage prints usage for the chunk command.
func printChunkUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks chunk <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Split a manuscript into chapters and bounded-size chunks for")
	fmt.Fprintln(w, "text-to-speech. Writes one directory per document containing whole")
	fmt.Fprintln(w, "chapter files and numbered chunk files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown or EPUB file (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>     Output directory")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>      Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chunking:")
	fmt.Fprintln(w, "      --max-chunk <n>    Maximum chunk size in bytes (default 2000)")
	fmt.Fprintln(w, "      --min-chunk <n>    Minimum chunk size in bytes (default 500)")
	fmt.Fprintln(w, "      --tts-clean        Strip markup for text-to-speech (default true)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>        Document title (\"\" = front matter, then first heading)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show detailed progress and timing")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks publish <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prepare a manuscript and compile it to EPUB with pandoc.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .epub file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = front matter, then first heading)")
	fmt.Fprintln(w, "      --author <s>          Author name")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Book:")
	fmt.Fprintln(w, "  -s, --style <s>           Style name, CSS file path, or inline CSS")
	fmt.Fprintln(w, "      --chapter-level <n>   Heading level that opens a chapter (default 2)")
	fmt.Fprintln(w, "      --no-toc              Disable the table of contents")
	fmt.Fprintln(w, "  -t, --timeout <d>         Compilation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --debug               Keep the processed Markdown next to the EPUB")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress and timing")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks preview <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a prepared manuscript to a standalone, styled HTML page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>    Output .html file or directory")
	fmt.Fprintln(w, "  -s, --style <s>        Style name, CSS file path, or inline CSS")
	fmt.Fprintln(w, "      --title <s>        Page title (\"\" = front matter, then first heading)")
	fmt.Fprintln(w, "  -c, --config <name>    Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet            Only show errors")
	fmt.Fprintln(w, "  -v, --verbose          Show detailed progress and timing")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookworks doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that pandoc is installed and the environment can publish books.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json    Output results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "prepare":
		printPrepareUsage(env.Stdout)
	case "chunk":
		printChunkUsage(env.Stdout)
	case "publish":
		printPublishUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: bookworks version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: bookworks help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
