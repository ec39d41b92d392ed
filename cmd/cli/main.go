package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/mdlgraph/internal/app"
	"github.com/vk/mdlgraph/internal/cli"
)

// main is the entrypoint for the mdlgraph importer.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, logW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, logW, config).Run(context.Background())
}
