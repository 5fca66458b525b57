package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/carshape/internal/config"
	"github.com/samcharles93/carshape/internal/logger"
	"github.com/samcharles93/carshape/pkg/problem"
)

var cfg config.Config

// setup loads the config file, applies it under any explicitly set flags and
// installs the logger into the command context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = config.Path()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	cfg = loaded
	applyConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log := logger.Setup(os.Stderr, logFormat, level)
	return logger.WithContext(ctx, log), nil
}

// applyConfig fills flag variables from the config file when the
// corresponding flag was not set on the command line.
func applyConfig(c *cli.Command, cfg config.Config) {
	if cfg.Variant != "" && !c.IsSet("variant") {
		variantName = cfg.Variant
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func selectedVariant() (problem.Variant, error) {
	return problem.ParseVariant(variantName)
}

// loaderOptions merges config file settings with the command-line switches.
func loaderOptions(ctx context.Context) []problem.Option {
	opts := append([]problem.Option{problem.WithLogger(logger.FromContext(ctx))}, cfg.LoaderOptions()...)
	if noMmap {
		opts = append(opts, problem.WithMmap(false))
	}
	return opts
}

func newLoader(ctx context.Context) (*problem.Loader, error) {
	v, err := selectedVariant()
	if err != nil {
		return nil, err
	}
	return problem.NewLoader(v, loaderOptions(ctx)...)
}

func problemsDir() string {
	return cfg.ResolveProblemsDir(problemsPath)
}
