package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowsheetgo/internal/config"
	"github.com/vk/flowsheetgo/internal/ctxlog"
	"github.com/vk/flowsheetgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	config    *config.Model
	converter config.Converter
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the definition files into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, appConfig.FlowsheetPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load flowsheet definition: %w", err))
	}
	logger.Debug("Definition loaded and translated into unified model.")

	// Create and populate the registry with unit builders.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All unit modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		config:    cfgModel,
		converter: converter,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
