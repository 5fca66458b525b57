package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/carshape/internal/logger"
	"github.com/samcharles93/carshape/pkg/problem"
)

func genCmd() *cli.Command {
	var (
		views        int
		points       int
		observations int
		seed         int64
		out          string
	)

	return &cli.Command{
		Name:  "gen",
		Usage: "Write a synthetic problem file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "views", Usage: "number of views", Value: 1, Destination: &views},
			&cli.IntFlag{Name: "points", Usage: "number of keypoints", Value: 14, Destination: &points},
			&cli.IntFlag{Name: "observations", Aliases: []string{"obs"}, Usage: "observations per view", Value: 10, Destination: &observations},
			&cli.Int64Flag{Name: "seed", Usage: "random seed", Value: 1, Destination: &seed},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)", Destination: &out},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			v, err := selectedVariant()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			d := problem.Dimensions{Views: views, Points: points, Observations: observations}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := generate(w, v, d, seed); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if out != "" {
				logger.FromContext(ctx).Info("wrote problem", "path", out, "variant", v.String(), "dims", d.String())
			}
			return nil
		},
	}
}

func generate(w io.Writer, v problem.Variant, d problem.Dimensions, seed int64) error {
	p, err := problem.Synthesize(v, d, seed)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()
	bw := bufio.NewWriter(w)
	if err := problem.Encode(bw, p); err != nil {
		return err
	}
	return bw.Flush()
}
