package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	flag "github.com/spf13/pflag"
)

// run dispatches the subcommand and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "prepare":
		err = runPrepare(ctx, rest, env)
	case "chunk":
		err = runChunk(ctx, rest, env)
	case "publish":
		err = runPublish(ctx, rest, env)
	case "preview":
		err = runPreview(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		printVersion(env.Stdout)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		// pflag already printed usage for help requests.
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	return ExitSuccess
}

// printVersion prints version and build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "bookworks %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
