// Package pandoc compiles Markdown manuscripts into EPUB books by
// shelling out to the pandoc binary.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Sentinel errors for compiler failures.
var (
	ErrNotFound      = errors.New("pandoc binary not found")
	ErrCompileFailed = errors.New("pandoc compilation failed")
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
)

const (
	// binaryName is the compiler executable looked up on PATH.
	binaryName = "pandoc"

	// envBinary overrides the executable path when set, for installs
	// that keep pandoc outside PATH.
	envBinary = "BOOKWORKS_PANDOC"

	// DefaultChapterLevel is the heading level that opens an EPUB chapter.
	DefaultChapterLevel = 2

	// tocDepth is the heading depth included in generated tables of contents.
	tocDepth = 3
)

// Book describes one EPUB compilation.
type Book struct {
	Markdown     string // prepared Markdown content (required)
	Title        string
	Author       string
	Date         string
	TOC          bool   // generate a table of contents
	CSS          string // stylesheet content embedded into the book
	ChapterLevel int    // 0 means DefaultChapterLevel
	OutputPath   string // destination .epub path (required)
}

// CommandRunner abstracts command execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Compiler runs pandoc to produce EPUB files.
type Compiler struct {
	Runner CommandRunner
}

// NewCompiler creates a Compiler with a real command runner.
func NewCompiler() *Compiler {
	return &Compiler{Runner: &ExecRunner{}}
}

// LookPath resolves the pandoc executable, honoring the BOOKWORKS_PANDOC
// override, and reports where it was found.
func LookPath() (string, error) {
	path, err := exec.LookPath(binary())
	if err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// Available reports whether the pandoc binary can be found.
func Available() bool {
	_, err := LookPath()
	return err == nil
}

// binary returns the executable name or path to run.
func binary() string {
	if p := os.Getenv(envBinary); p != "" {
		return p
	}
	return binaryName
}

// Version returns pandoc's version line for diagnostics.
func (c *Compiler) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.Runner.Run(ctx, binary(), "--version")
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("probing pandoc version: %w", err)
	}
	line, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(line), nil
}

// Compile writes the book's Markdown to a temporary file and runs pandoc
// to produce an EPUB at book.OutputPath. A canceled or expired context
// surfaces as the context error rather than a compile failure.
func (c *Compiler) Compile(ctx context.Context, book Book) error {
	if strings.TrimSpace(book.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if book.OutputPath == "" {
		return fmt.Errorf("%w: no output path", ErrCompileFailed)
	}

	mdPath, cleanupMD, err := writeTempFile("bookworks-*.md", book.Markdown)
	if err != nil {
		return err
	}
	defer cleanupMD()

	args := buildArgs(mdPath, book)
	if book.CSS != "" {
		cssPath, cleanupCSS, err := writeTempFile("bookworks-*.css", book.CSS)
		if err != nil {
			return err
		}
		defer cleanupCSS()
		args = append(args, "--css="+cssPath)
	}

	_, stderr, err := c.Runner.Run(ctx, binary(), args...)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: install pandoc and ensure it is on PATH", ErrNotFound)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s", ErrCompileFailed, compileDetail(stderr, err))
	}

	return nil
}

// buildArgs assembles the pandoc command line for a book.
func buildArgs(mdPath string, book Book) []string {
	level := book.ChapterLevel
	if level == 0 {
		level = DefaultChapterLevel
	}

	args := []string{
		mdPath,
		"-o", book.OutputPath,
		"--epub-chapter-level=" + strconv.Itoa(level),
	}
	if book.Title != "" {
		args = append(args, "--metadata=title:"+book.Title)
	}
	if book.Author != "" {
		args = append(args, "--metadata=author:"+book.Author)
	}
	if book.Date != "" {
		args = append(args, "--metadata=date:"+book.Date)
	}
	if book.TOC {
		args = append(args, "--toc", "--toc-depth="+strconv.Itoa(tocDepth))
	}
	return args
}

// compileDetail prefers pandoc's stderr over the raw exec error.
func compileDetail(stderr string, err error) string {
	if detail := strings.TrimSpace(stderr); detail != "" {
		return detail
	}
	return err.Error()
}

// isNotFound reports whether err means the binary is missing from PATH.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// writeTempFile creates a temporary file with the given content.
// Returns the file path and a cleanup function to remove the file.
func writeTempFile(pattern, content string) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmp.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}
