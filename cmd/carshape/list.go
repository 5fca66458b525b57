package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/carshape/internal/catalog"
	"github.com/samcharles93/carshape/internal/config"
	"github.com/samcharles93/carshape/internal/logger"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List problem files in the problems directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			dir := problemsDir()
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --problems-path is required unless %s is set", config.EnvProblemsDir), 1)
			}
			entries, err := catalog.Discover(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(entries) == 0 {
				log.Info("no problem files found", "path", dir)
				return nil
			}

			fmt.Printf("Problems in %s:\n\n", dir)
			for _, e := range entries {
				fmt.Printf("  %-40s %8s\n", e.Name, catalog.FormatSize(e.Size))
			}
			fmt.Printf("\n%d problem(s) found\n", len(entries))
			return nil
		},
	}
}
