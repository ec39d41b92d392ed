// Package app wires the import pipeline behind the command line: it owns
// the isolated logger, loads the catalog, runs one import, and renders the
// result as JSON for whatever consumes the output.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/mdlgraph/internal/catalog"
	"github.com/vk/mdlgraph/internal/ctxlog"
	"github.com/vk/mdlgraph/internal/importer"
	"github.com/vk/mdlgraph/internal/model"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FilePath    string
	CatalogPath string
	LogFormat   string
	LogLevel    string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs the application with an isolated logger. Result JSON
// goes to outW; logs go to logW so the two streams stay separable.
func NewApp(outW, logW io.Writer, config *Config) *App {
	return &App{
		outW:   outW,
		logW:   logW,
		logger: newLogger(config.LogLevel, config.LogFormat, logW),
		config: config,
	}
}

// Run performs one import of the configured file and writes the rendered
// result. A structural error is reported as a failure; warnings ride along
// inside the rendered result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	text, err := os.ReadFile(a.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", a.config.FilePath, err)
	}

	cat := catalog.Default()
	if a.config.CatalogPath != "" {
		if err := cat.LoadDir(ctx, a.config.CatalogPath); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	res, err := importer.Import(ctx, string(text), importer.Options{Catalog: cat})
	if err != nil {
		var structural *model.StructuralError
		if errors.As(err, &structural) {
			return fmt.Errorf("document rejected: %w", err)
		}
		return err
	}

	if err := renderJSON(a.outW, res); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	return nil
}
