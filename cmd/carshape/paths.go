package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/carshape/internal/catalog"
	"github.com/samcharles93/carshape/internal/config"
)

// resolveProblemPath accepts either a path on disk or a catalog name inside
// the problems directory.
func resolveProblemPath(arg, dir string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("problem file is required")
	}
	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		return filepath.Clean(arg), nil
	}
	if dir == "" {
		return filepath.Clean(arg), nil
	}
	e, err := catalog.Resolve(dir, arg)
	if err != nil {
		return "", err
	}
	return e.Path, nil
}

// resolveProblemPaths expands command arguments, or every catalog entry when
// no arguments are given.
func resolveProblemPaths(args []string, dir string) ([]string, error) {
	if len(args) == 0 {
		if dir == "" {
			return nil, fmt.Errorf("no problem files given and no problems directory set (--problems-path or %s)", config.EnvProblemsDir)
		}
		entries, err := catalog.Discover(dir)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Path)
		}
		return out, nil
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		p, err := resolveProblemPath(a, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
