// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Nwstat analyzes averaged Needleman-Wunsch benchmark results and
// draws charts of them.
//
// Usage:
//
//	nwstat [flags] -i resultados_promedio.csv
//
// Nwstat reports, for the sequential runs, the share of total time
// spent in each phase of the algorithm and which input spends the
// most time filling the score matrix. The report is printed and
// written to resumen_analisis.txt in the output location, together
// with these charts:
//
//	phases            stacked phase shares per input
//	phase_times       phase time vs sequence length, log-log
//	fill_share        fill phase share per input with its mean
//	total_vs_length   total time vs sequence length, log-log
//	pie               phase breakdown of one input (see -pie-file)
//
// If the input also holds parallel runs, the speedup of the best
// schedule per thread count and the total time per method and
// schedule are drawn as well, in speedup and time_vs_size.
//
// The output location is a directory or a gs://bucket/prefix URL.
// Charts are drawn once per style: -format ieee (a single journal
// column), ppt (a widescreen slide) or both.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot"

	"github.com/nwalign/nwperf/chart"
	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/internal/fs"
	"github.com/nwalign/nwperf/report"
	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/speedup"
)

var exit = os.Exit // replaced during testing

func main() {
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "nwstat: %v\n", err)
	}
	exit(cli.ExitCode(err))
}

func run(stdout, stderr io.Writer, args []string) error {
	flags := cli.NewFlagSet("nwstat", stderr)
	var (
		input   = flags.StringP("input", "i", "", "averaged results `file`")
		output  = flags.StringP("output", "o", "graficas", "output `dir` or gs://bucket/prefix")
		format  = flags.String("format", "ieee", "chart `style`: ieee, ppt or both")
		pieFile = flags.StringP("pie-file", "a", "", "draw the pie chart for input `name` (default: the highest fill share)")
		html    = flags.Bool("html", false, "also write resumen_analisis.html")
		creds   = flags.String("gcs-credentials", "", "service account key `file` for gs:// output")
		verbose = flags.BoolP("verbose", "v", false, "log every skipped row")
	)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: nwstat [flags] -i resultados_promedio.csv\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	if *input == "" && flags.NArg() == 1 {
		*input = flags.Arg(0)
	} else if *input == "" || flags.NArg() > 0 {
		flags.Usage()
		return cli.ErrUsage
	}
	styles, err := chart.Styles(*format)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	log := cli.NewLogger(stderr, *verbose)
	ctx := context.Background()

	in, err := cli.ReadGroups(log, *input)
	if err != nil {
		return err
	}
	out, err := fs.Open(ctx, *output, *creds)
	if err != nil {
		return err
	}

	// Phase analysis is about the algorithm itself, so it uses the
	// sequential runs when there are any.
	phased := runagg.Sequential(in.Groups)
	if len(phased) == 0 {
		phased = in.Groups
	}
	warnings := in.Warnings()
	var tab *speedup.Table
	if len(runagg.Parallel(in.Groups)) > 0 && len(runagg.Sequential(in.Groups)) > 0 {
		if tab, err = speedup.Compare(in.Groups); err != nil {
			return err
		}
		warnings.Add(tab.Warnings...)
	}
	warnings.Log(log)

	var buf bytes.Buffer
	if err := report.WriteSummary(&buf, phased, warnings.List()); err != nil {
		return err
	}
	if _, err := stdout.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := save(ctx, out, "resumen_analisis.txt", buf.Bytes()); err != nil {
		return err
	}
	if *html {
		buf.Reset()
		if err := report.WriteHTML(&buf, phased, tab, warnings.List()); err != nil {
			return err
		}
		if err := save(ctx, out, "resumen_analisis.html", buf.Bytes()); err != nil {
			return err
		}
	}

	pie := report.Bottleneck(phased)
	if *pieFile != "" {
		if pie = find(in.Groups, *pieFile); pie == nil {
			return fmt.Errorf("no results for %s in %s", *pieFile, *input)
		}
	}

	type drawing struct {
		name string
		draw func(chart.Style) (*plot.Plot, error)
	}
	drawings := []drawing{
		{"phases", func(s chart.Style) (*plot.Plot, error) { return chart.PhasePercentages(phased, s) }},
		{"phase_times", func(s chart.Style) (*plot.Plot, error) { return chart.PhaseTimes(phased, s) }},
		{"fill_share", func(s chart.Style) (*plot.Plot, error) { return chart.FillShare(phased, s) }},
		{"total_vs_length", func(s chart.Style) (*plot.Plot, error) { return chart.TotalVsLength(phased, s) }},
	}
	if pie != nil {
		drawings = append(drawings, drawing{"pie_" + pie.Info().Label, func(s chart.Style) (*plot.Plot, error) { return chart.Pie(pie, s) }})
	}
	if tab != nil {
		a, err := speedup.Analyze(tab)
		if err != nil {
			log.Warn().Err(err).Msg("no Amdahl projection")
			a = nil
		}
		drawings = append(drawings,
			drawing{"speedup", func(s chart.Style) (*plot.Plot, error) {
				return chart.SpeedupCurve(tab, a, speedup.DefaultPolicy, s)
			}},
			drawing{"time_vs_size", func(s chart.Style) (*plot.Plot, error) { return chart.TimeVsSize(in.Groups, s) }},
		)
	}
	for _, s := range styles {
		for _, d := range drawings {
			if err := drawChart(ctx, log, out, d.name, d.draw, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawChart(ctx context.Context, log zerolog.Logger, out fs.FS, name string, draw func(chart.Style) (*plot.Plot, error), s chart.Style) error {
	p, err := draw(s)
	if errors.Is(err, chart.ErrNoData) {
		log.Warn().Str("chart", name).Msg("nothing to draw")
		return nil
	} else if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	file, err := chart.Save(ctx, out, name, p, s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Info().Str("file", file).Msg("wrote chart")
	return nil
}

func save(ctx context.Context, out fs.FS, name string, data []byte) error {
	w, err := out.NewWriter(ctx, name, nil)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}

// find returns the first sequential group whose input matches name,
// or the first group of any method if there is no sequential one. name
// may be a path, a base name or a label without the .fasta extension.
func find(groups []*runagg.Group, name string) *runagg.Group {
	name = runfmt.NormalizePath(name)
	var first *runagg.Group
	for _, g := range groups {
		file := runfmt.NormalizePath(g.Key.File)
		info := g.Info()
		if file != name && info.Label != name && info.Label+".fasta" != name && !strings.HasSuffix(file, "/"+name) {
			continue
		}
		if g.IsSequential() {
			return g
		}
		if first == nil {
			first = g
		}
	}
	return first
}
