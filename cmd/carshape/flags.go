package main

import "github.com/urfave/cli/v3"

var (
	variantName  string
	problemsPath string
	configFile   string
	noMmap       bool
	logLevel     string
	logFormat    string
	debug        bool
)

func problemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "variant",
			Usage:       "problem file variant (pose, shape-pose, multi-view)",
			Value:       "shape-pose",
			Destination: &variantName,
		},
		&cli.StringFlag{
			Name:        "problems-path",
			Aliases:     []string{"path"},
			Usage:       "directory containing problem files",
			Destination: &problemsPath,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Destination: &configFile,
		},
		&cli.BoolFlag{
			Name:        "no-mmap",
			Usage:       "read problem files instead of memory-mapping them",
			Destination: &noMmap,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
