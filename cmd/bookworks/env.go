package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	bookworks "github.com/alnah/go-bookworks"
)

// Pipeline is the slice of the bookworks service the CLI consumes.
type Pipeline interface {
	Prepare(ctx context.Context, doc bookworks.Document) (string, error)
	ChunkDocument(ctx context.Context, doc bookworks.Document, policy bookworks.ChunkPolicy) ([]bookworks.ChapterChunks, error)
	Publish(ctx context.Context, doc bookworks.Document, opts bookworks.PublishOptions) error
}

// Compile-time check that the real service implements Pipeline.
var _ Pipeline = (*bookworks.Service)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and service construction.
type Environment struct {
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     zerolog.Logger
	NewService func(opts ...bookworks.Option) Pipeline
}

// DefaultEnv returns the production environment: real clock, process
// streams, console logging on stderr, and the real service.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger(),
		NewService: func(opts ...bookworks.Option) Pipeline {
			return bookworks.New(opts...)
		},
	}
}

// logger derives the command logger from the environment, leveled by
// the --quiet/--verbose flags.
func (e *Environment) logger(common commonFlags) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case common.quiet:
		level = zerolog.ErrorLevel
	case common.verbose:
		level = zerolog.DebugLevel
	}
	return e.Logger.Level(level)
}
