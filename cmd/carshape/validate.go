package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/carshape/internal/logger"
	"github.com/samcharles93/carshape/pkg/problem"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Load problem files and stop at the first invalid one",
		ArgsUsage: "[file|name ...]",
		Action: func(ctx context.Context, c *cli.Command) error {
			paths, err := resolveProblemPaths(c.Args().Slice(), problemsDir())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			l, err := newLoader(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := validateFiles(ctx, l, paths); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("%d file(s) valid\n", len(paths))
			return nil
		},
	}
}

// validateFiles loads each path in turn and returns the first failure.
func validateFiles(ctx context.Context, l *problem.Loader, paths []string) error {
	log := logger.FromContext(ctx)
	for _, path := range paths {
		p, err := l.LoadFile(ctx, path)
		if err != nil {
			var perr *problem.ParseError
			if errors.As(err, &perr) {
				log.Error("invalid data file",
					"path", path,
					"field", perr.Field,
					"line", perr.Line,
					"offset", perr.Offset,
				)
			} else {
				log.Error("load failed", "path", path, "error", err)
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Info("valid", "path", path, "dims", p.Dims().String())
		_ = p.Close()
	}
	return nil
}
