// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Nwavg averages the repetitions of Needleman-Wunsch benchmark runs.
//
// Usage:
//
//	nwavg [flags] -i resultados.csv
//
// Nwavg reads a run file, with one row per repetition of a
// configuration, and writes one row per configuration with the mean
// of every measured time and a num_repeticiones column. By default
// the output is written next to the input as <input>_promedio.csv.
//
// Rows with the wrong number of fields or an unparseable
// configuration value are skipped and counted. Schedules written
// without quoting, such as dynamic,1, make a row one field too long;
// -repair-schedule re-joins them instead of skipping the row.
//
// The aggregated groups can also be stored in a SQL database with
// -db driver:dsn (sqlite3 or mysql), sent to InfluxDB with the
// -influx-* flags, and written as a Prometheus textfile with
// -prom-textfile.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/internal/fs"
	"github.com/nwalign/nwperf/internal/influx"
	"github.com/nwalign/nwperf/internal/promfile"
	"github.com/nwalign/nwperf/internal/store"
	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

var exit = os.Exit // replaced during testing

func main() {
	err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "nwavg: %v\n", err)
	}
	exit(cli.ExitCode(err))
}

// now is replaced during testing.
var now = time.Now

func run(stdout, stderr io.Writer, args []string) error {
	flags := cli.NewFlagSet("nwavg", stderr)
	var (
		input    = flags.StringP("input", "i", "", "input run `file`")
		output   = flags.StringP("output", "o", "", "output `file` (default <input>_promedio.csv)")
		repair   = flags.Bool("repair-schedule", false, "re-join unquoted schedules such as dynamic,1")
		dbFlag   = flags.String("db", "", "also store the groups in `driver:dsn` (sqlite3 or mysql)")
		ifx      influx.Config
		promPath = flags.String("prom-textfile", "", "also write the groups as a Prometheus textfile to `path`")
		verbose  = flags.BoolP("verbose", "v", false, "log every skipped row")
	)
	flags.StringVar(&ifx.URL, "influx-url", "", "also send the groups to the InfluxDB server at `url`")
	flags.StringVar(&ifx.Token, "influx-token", "", "InfluxDB API `token`")
	flags.StringVar(&ifx.Org, "influx-org", "", "InfluxDB `organization`")
	flags.StringVar(&ifx.Bucket, "influx-bucket", "", "InfluxDB `bucket`")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: nwavg [flags] -i resultados.csv\n")
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
	if *output == "" {
		*output = strings.TrimSuffix(*input, filepath.Ext(*input)) + "_promedio.csv"
	}
	var driver, dsn string
	if *dbFlag != "" {
		var err error
		if driver, dsn, err = store.ParseDSN(*dbFlag); err != nil {
			return fmt.Errorf("%w: %v", cli.ErrUsage, err)
		}
	}
	log := cli.NewLogger(stderr, *verbose)
	ctx := context.Background()

	in, err := cli.ReadGroups(log, *input, runfmt.RepairSchedule(*repair))
	if err != nil {
		return err
	}
	groups := in.Groups
	warnings := in.Warnings()
	warnings.Log(log)

	if err := writeGroups(ctx, *output, in.Columns, groups); err != nil {
		return err
	}
	log.Info().Str("file", *output).Int("groups", len(groups)).Msg("wrote averages")

	if driver != "" {
		db, err := store.OpenSQL(driver, dsn)
		if err != nil {
			return err
		}
		id, err := db.InsertGroups(ctx, *input, groups)
		db.Close()
		if err != nil {
			return err
		}
		log.Info().Str("driver", driver).Int64("aggregation", id).Msg("stored groups")
	}
	if ifx.URL != "" {
		w, closeClient := influx.Open(ifx)
		err := influx.Export(ctx, w, groups, now())
		closeClient()
		if err != nil {
			return fmt.Errorf("influx: %w", err)
		}
		log.Info().Str("bucket", ifx.Bucket).Int("points", len(groups)).Msg("sent groups to InfluxDB")
	}
	if *promPath != "" {
		if err := promfile.Write(*promPath, groups); err != nil {
			return err
		}
		log.Info().Str("file", *promPath).Msg("wrote Prometheus textfile")
	}

	printStats(stdout, *input, *output, in)
	if s := warnings.Summary(); s != "" {
		fmt.Fprintf(stdout, "\n%s, see log\n", s)
	}
	return nil
}

func writeGroups(ctx context.Context, path string, cols runfmt.Columns, groups []*runagg.Group) error {
	out, err := fs.NewLocal(filepath.Dir(path))
	if err != nil {
		return err
	}
	w, err := out.NewWriter(ctx, filepath.Base(path), nil)
	if err != nil {
		return err
	}
	cw := runfmt.NewWriter(w, cols)
	for _, g := range groups {
		if err := cw.Write(g.Run()); err != nil {
			w.CloseWithError(err)
			return err
		}
	}
	if err := cw.Flush(); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}

func printStats(w io.Writer, input, output string, in *cli.Input) {
	groups := in.Groups
	s := runagg.Summarize(groups)
	fmt.Fprintf(w, "Read %d rows from %s\n", in.Rows, input)
	fmt.Fprintf(w, "Skipped rows:      %d\n", len(in.Skipped))
	for _, f := range in.Columns.Measures {
		if n := in.Missing[f]; n > 0 {
			fmt.Fprintf(w, "Missing values:    %d in %s\n", n, f)
		}
	}
	fmt.Fprintf(w, "Wrote %d configurations to %s\n", len(groups), output)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Unique files:      %d\n", s.Files)
	fmt.Fprintf(w, "Methods:           %s\n", strings.Join(s.Methods, ", "))
	fmt.Fprintf(w, "Configurations:    %d\n", s.Configs)
	fmt.Fprintf(w, "Repetitions:\n")
	var counts []int
	for n := range s.Repetitions {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	for _, n := range counts {
		fmt.Fprintf(w, "  %d: %d groups\n", n, s.Repetitions[n])
	}
}
