// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Nwcompare compares parallel Needleman-Wunsch benchmark runs with
// the sequential baseline.
//
// Usage:
//
//	nwcompare [flags] -i resultados.csv
//
// The input may hold raw repetitions or averages written by nwavg;
// raw rows are averaged first. Each parallel configuration is
// matched with the sequential run of the same input file, or failing
// that of the same sequence length, and its speedup and efficiency
// are reported, along with the fastest configurations per input and
// the speedup of each phase.
//
// With -amdahl, nwcompare also estimates the parallel fraction of the
// sequential runs and compares the observed speedup at each thread
// count with Amdahl's law. Observed speedups above the Amdahl bound
// are reported as warnings, since they usually mean the sequential
// and parallel runs were not measured alike.
//
// With -o, the speedup curve and the time per method and schedule
// are also drawn into the given directory or gs://bucket/prefix.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/nwalign/nwperf/chart"
	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/internal/fs"
	"github.com/nwalign/nwperf/report"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/speedup"
)

var exit = os.Exit // replaced during testing

func main() {
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "nwcompare: %v\n", err)
	}
	exit(cli.ExitCode(err))
}

func run(stdout, stderr io.Writer, args []string) error {
	flags := cli.NewFlagSet("nwcompare", stderr)
	var (
		input   = flags.StringP("input", "i", "", "raw or averaged results `file`")
		amdahl  = flags.Bool("amdahl", false, "also compare the speedup with Amdahl's law")
		output  = flags.StringP("output", "o", "", "draw charts into `dir` or gs://bucket/prefix")
		format  = flags.String("format", "ieee", "chart `style`: ieee, ppt or both")
		repair  = flags.Bool("repair-schedule", false, "re-join unquoted schedules such as dynamic,1")
		creds   = flags.String("gcs-credentials", "", "service account key `file` for gs:// output")
		verbose = flags.BoolP("verbose", "v", false, "log every skipped row")
	)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: nwcompare [flags] -i resultados.csv\n")
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

	in, err := cli.ReadGroups(log, *input, runfmt.RepairSchedule(*repair))
	if err != nil {
		return err
	}
	tab, err := speedup.Compare(in.Groups)
	if err != nil {
		return fmt.Errorf("%s: %w", *input, err)
	}
	warnings := in.Warnings()
	warnings.Add(tab.Warnings...)

	if err := report.WriteComparison(stdout, tab); err != nil {
		return err
	}
	var a *speedup.Analysis
	if *amdahl {
		if a, err = speedup.Analyze(tab); err != nil {
			return err
		}
		warnings.Add(a.Warnings...)
		fmt.Fprintln(stdout)
		if err := report.WriteAmdahl(stdout, a); err != nil {
			return err
		}
	}
	warnings.Log(log)

	if *output == "" {
		return nil
	}
	out, err := fs.Open(ctx, *output, *creds)
	if err != nil {
		return err
	}
	for _, s := range styles {
		p, err := chart.SpeedupCurve(tab, a, speedup.DefaultPolicy, s)
		if errors.Is(err, chart.ErrNoData) {
			log.Warn().Msg("no finite speedup, skipping speedup chart")
		} else if err != nil {
			return fmt.Errorf("speedup chart: %w", err)
		} else {
			file, err := chart.Save(ctx, out, "speedup", p, s)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Msg("wrote chart")
		}

		p, err = chart.TimeVsSize(in.Groups, s)
		if errors.Is(err, chart.ErrNoData) {
			log.Warn().Msg("no DNA inputs, skipping time vs size chart")
			continue
		} else if err != nil {
			return fmt.Errorf("time vs size chart: %w", err)
		}
		file, err := chart.Save(ctx, out, "time_vs_size", p, s)
		if err != nil {
			return err
		}
		log.Info().Str("file", file).Msg("wrote chart")
	}
	return nil
}
