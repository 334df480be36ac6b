// Package config loads CLI configuration from YAML files. A config
// supplies defaults for directories, document metadata, chunking, and
// publishing; command-line flags override whatever it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-bookworks/internal/fileutil"
	"github.com/alnah/go-bookworks/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrChunkBounds     = errors.New("invalid chunk bounds")
)

// Field length limits. Configs can come from shared or untrusted
// locations, so lengths are capped.
const (
	MaxTitleLength  = 200  // Book title override
	MaxAuthorLength = 100  // Author name
	MaxDateLength   = 30   // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxStyleLength  = 2048 // Style name or path
	MaxDirLength    = 4096 // Directory paths
)

// Config holds all configuration for book processing.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Document DocumentConfig `yaml:"document"`
	Chunk    ChunkConfig    `yaml:"chunk"`
	Publish  PublishConfig  `yaml:"publish"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current directory)
}

// DocumentConfig defines metadata defaults applied when neither the
// document nor the flags provide a value.
type DocumentConfig struct {
	Title  string `yaml:"title"`  // Empty = front matter, then first heading
	Author string `yaml:"author"`
	Date   string `yaml:"date"` // Supports "auto" and "auto:FORMAT"
}

// ChunkConfig defines chunking defaults. Zero sizes mean the library
// defaults apply.
type ChunkConfig struct {
	MaxSize int  `yaml:"maxSize"`
	MinSize int  `yaml:"minSize"`
	Speech  bool `yaml:"speech"` // Clean chunks for text-to-speech
}

// PublishConfig defines EPUB publishing defaults.
type PublishConfig struct {
	TOC          bool   `yaml:"toc"`
	ChapterLevel int    `yaml:"chapterLevel"` // 0 = pandoc default (2)
	Style        string `yaml:"style"`        // Style name, CSS path, or inline CSS
}

// Validate checks field lengths and value ranges. Called automatically
// by LoadConfig, but available for consumers who construct Config
// manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxDirLength); err != nil {
		return err
	}

	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.author", c.Document.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.date", c.Document.Date, MaxDateLength); err != nil {
		return err
	}

	// Negative sizes are always wrong. The min/max ordering is enforced
	// where the ChunkPolicy is built, so partial configs can rely on
	// library defaults for the missing bound.
	if c.Chunk.MaxSize < 0 {
		return fmt.Errorf("%w: chunk.maxSize must not be negative, got %d", ErrChunkBounds, c.Chunk.MaxSize)
	}
	if c.Chunk.MinSize < 0 {
		return fmt.Errorf("%w: chunk.minSize must not be negative, got %d", ErrChunkBounds, c.Chunk.MinSize)
	}

	if c.Publish.ChapterLevel < 0 || c.Publish.ChapterLevel > 6 {
		return fmt.Errorf("publish.chapterLevel: must be between 1 and 6 (or 0 for the default), got %d", c.Publish.ChapterLevel)
	}
	if err := validateFieldLength("publish.style", c.Publish.Style, MaxStyleLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
// The TOC is on because pandoc EPUB readers expect one, and speech
// cleanup is on because chunks exist to feed TTS engines; everything
// else stays neutral.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Author: "Author Not Specified",
			Date:   "auto",
		},
		Chunk:   ChunkConfig{Speech: true},
		Publish: PublishConfig{TOC: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback). Keys absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations LoadConfig would try for a config
// name, in order. Useful for error hints.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-bookworks", name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in standard
// locations: current directory first, then ~/.config/go-bookworks/,
// trying .yaml before .yml in each.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
