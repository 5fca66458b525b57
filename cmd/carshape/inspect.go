package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/samcharles93/carshape/pkg/problem"
)

type inspectReport struct {
	Path    string         `json:"path"`
	HasPose bool           `json:"has_pose"`
	Layout  problem.Layout `json:"layout"`
	Views   []viewReport   `json:"views"`
}

type viewReport struct {
	View        int        `json:"view"`
	Focal       [2]float64 `json:"focal"`
	Principal   [2]float64 `json:"principal"`
	Center      []float64  `json:"car_center"`
	WeightSum   float64    `json:"weight_sum"`
	RotationDet *float64   `json:"rotation_det,omitempty"`
	Translation []float64  `json:"translation,omitempty"`
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Load a problem file and print its dimensions, layout and per-view summary",
		ArgsUsage: "<file|name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := resolveProblemPath(c.Args().First(), problemsDir())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			l, err := newLoader(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			p, err := l.LoadFile(ctx, path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = p.Close() }()

			rep, err := buildReport(path, p)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if asJSON {
				return writeJSON(os.Stdout, rep)
			}
			printReport(os.Stdout, rep)
			return nil
		},
	}
}

func buildReport(path string, p *problem.Problem) (inspectReport, error) {
	rep := inspectReport{Path: path, HasPose: p.HasPose(), Layout: p.Layout()}
	for v := 0; v < p.NumViews(); v++ {
		k, err := p.IntrinsicsMatrix(v)
		if err != nil {
			return rep, err
		}
		center, err := p.View(problem.EntityCenter, v)
		if err != nil {
			return rep, err
		}
		vr := viewReport{
			View:      v,
			Focal:     [2]float64{k.At(0, 0), k.At(1, 1)},
			Principal: [2]float64{k.At(0, 2), k.At(1, 2)},
			Center:    append([]float64(nil), center...),
		}
		if p.NumObservations() > 0 {
			w, err := p.WeightVector(v)
			if err != nil {
				return rep, err
			}
			vr.WeightSum = mat.Sum(w)
		}
		if p.HasPose() {
			r, err := p.RotationMatrix(v)
			if err != nil {
				return rep, err
			}
			det := mat.Det(r)
			vr.RotationDet = &det
			t, err := p.Translation(v)
			if err != nil {
				return rep, err
			}
			vr.Translation = t.Snapshot()
		}
		rep.Views = append(rep.Views, vr)
	}
	return rep, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func printReport(w io.Writer, rep inspectReport) {
	l := rep.Layout
	fmt.Fprintf(w, "Problem: %s\n", filepath.Base(rep.Path))
	fmt.Fprintf(w, "Variant: %s\n", l.Variant)
	fmt.Fprintf(w, "Dims:    %s\n", l.Dims)
	fmt.Fprintf(w, "Basis:   %d\n", l.NumBasis)
	fmt.Fprintf(w, "Tokens:  %d\n\n", l.TokenCount)

	fmt.Fprintln(w, "Layout:")
	for _, f := range l.Fields {
		mut := ""
		if f.Mutable {
			mut = "  (param)"
		}
		fmt.Fprintf(w, "  %-20s %-8s %4d x %-6d = %-8d @%d%s\n",
			f.Name, f.Scope, f.Blocks, f.Block, f.Len, f.Token, mut)
	}

	if len(rep.Views) == 0 {
		return
	}
	fmt.Fprintln(w, "\nViews:")
	for _, v := range rep.Views {
		fmt.Fprintf(w, "  [%d] f=(%.2f, %.2f) c=(%.2f, %.2f) center=%v weights=%.3f",
			v.View, v.Focal[0], v.Focal[1], v.Principal[0], v.Principal[1], v.Center, v.WeightSum)
		if v.RotationDet != nil {
			fmt.Fprintf(w, " det(R)=%.4f t=%v", *v.RotationDet, v.Translation)
		}
		fmt.Fprintln(w)
	}
}
