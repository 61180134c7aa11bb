// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/speedup"
)

func group(file, method string, threads int, schedule string, init, fill, tb, total float64) *runagg.Group {
	g := &runagg.Group{
		Key:   runagg.Key{File: file, Method: method, Threads: threads, Schedule: schedule, LengthA: 1000, LengthB: 1000},
		Count: 3,
	}
	for i := range g.StdDev {
		g.StdDev[i] = math.NaN()
	}
	g.Mean[runfmt.Init.MeasureIndex()] = init
	g.Mean[runfmt.Fill.MeasureIndex()] = fill
	g.Mean[runfmt.Traceback.MeasureIndex()] = tb
	g.Mean[runfmt.Total.MeasureIndex()] = total
	g.StdDev[runfmt.Total.MeasureIndex()] = 1.5
	return g
}

func sequential() []*runagg.Group {
	return []*runagg.Group{
		group("data/dna_2k.fasta", "secuencial", 1, "", 20, 60, 20, 100),
		group("data/dna_1k.fasta", "secuencial", 1, "", 10, 80, 10, 100),
	}
}

func TestWriteSummary(t *testing.T) {
	var buf strings.Builder
	err := WriteSummary(&buf, sequential(), []error{errors.New("dna_2k: slow first repetition")})
	require.NoError(t, err)
	out := buf.String()

	require.Contains(t, out, "Files analyzed: 2\n")
	require.Contains(t, out, "phase        mean     min     max  median\n")
	require.Contains(t, out, "fill       70.00%  60.00%  80.00%  70.00%\n")
	require.Contains(t, out, "  file:        dna_1k\n")
	require.Contains(t, out, "  fill:        80.00%\n")
	require.Contains(t, out, "WARNINGS (1)")
	require.Contains(t, out, "  - dna_2k: slow first repetition\n")

	// Files are listed DNA first by nominal length.
	require.Less(t, strings.Index(out, "\ndna_1k "), strings.Index(out, "\ndna_2k "))
}

func TestBottleneck(t *testing.T) {
	gs := sequential()
	require.Equal(t, gs[1], Bottleneck(gs))
	require.Nil(t, Bottleneck(nil))

	stats := PhaseStats(gs)
	require.Len(t, stats, len(Phases))
	require.InDelta(t, 15, stats[0].Mean, 1e-9)
	require.InDelta(t, 70, stats[1].Median, 1e-9)
}

func comparison(t *testing.T) *speedup.Table {
	t.Helper()
	odd := group("data/dna_9k.fasta", "bloques", 4, "static", 1, 1, 1, 3)
	odd.Key.LengthA = 9000
	tab, err := speedup.Compare([]*runagg.Group{
		group("data/dna_1k.fasta", "secuencial", 1, "", 10, 80, 10, 100),
		group(`data\dna_1k.fasta`, "bloques", 4, "static", 5, 20, 5, 25),
		group("data/dna_1k.fasta", "bloques", 4, "dynamic,1", 10, 30, 10, 50),
		group("data/dna_1k.fasta", "antidiagonal", 2, "static", 20, 100, 20, 140),
		odd,
	})
	require.NoError(t, err)
	return tab
}

func TestWriteComparison(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteComparison(&buf, comparison(t)))
	out := buf.String()

	for _, want := range []string{
		"1. SEQUENTIAL BASELINES\n",
		"    parallel:    25.00 ± 1.50 ms (bloques/4/static)\n",
		"    speedup:     4.000x\n",
		"    efficiency:  100.0%\n",
		"    parallel is 4.00x faster\n",
		"  data/dna_9k.fasta: no sequential baseline (bloques/4/static)\n",
		"    1. bloques/4/static: 25.00 ms\n",
		"    2. bloques/4/dynamic,1: 50.00 ms\n",
		"    3. antidiagonal/2/static: 140.00 ms\n",
		"    fill speedup:     4.000x\n",
		"WARNINGS (1)",
	} {
		require.Contains(t, out, want)
	}
}

func TestWriteComparisonSlower(t *testing.T) {
	tab, err := speedup.Compare([]*runagg.Group{
		group("a.fasta", "secuencial", 1, "", 10, 80, 10, 100),
		group("a.fasta", "bloques", 4, "static", 10, 180, 10, 200),
	})
	require.NoError(t, err)
	var buf strings.Builder
	require.NoError(t, WriteComparison(&buf, tab))
	require.Contains(t, buf.String(), "parallel is 2.00x SLOWER\n")
	require.NotContains(t, buf.String(), "WARNINGS")
}

func TestWriteAmdahl(t *testing.T) {
	tab, err := speedup.Compare([]*runagg.Group{
		group("a.fasta", "secuencial", 1, "", 15, 75, 10, 100),
		group("a.fasta", "bloques", 2, "static", 10, 45, 7.5, 62.5),
		group("a.fasta", "bloques", 4, "static", 10, 22, 8, 40),
	})
	require.NoError(t, err)
	a, err := speedup.Analyze(tab)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteAmdahl(&buf, a))
	out := buf.String()
	for _, want := range []string{
		"  fill:       75.00 ms (75.0%)\n",
		"  p = 0.7500 = 75.00%\n",
		"2 threads (best schedule static):\n",
		"  speedup     = 100.00 / 62.50 = 1.600x\n",
		"  projected:  1.600x\n",
		"  limit = 1 / (1 - p) = 1 / 0.2500 = 4.000x\n",
		"  speedup (4 threads): 2.50x\n",
		"  verdict:              excellent, close to the Amdahl bound\n",
		"WARNINGS (1)",
	} {
		require.Contains(t, out, want)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf strings.Builder
	err := WriteHTML(&buf, sequential(), comparison(t), []error{errors.New("<script>alert(1)</script>")})
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "<title>Needleman-Wunsch benchmark analysis</title>")
	require.Contains(t, out, "<td>dna_1k")
	require.Contains(t, out, "<td>bloques/4/static")
	require.Contains(t, out, "&lt;script&gt;")
	require.NotContains(t, out, "<script>")

	buf.Reset()
	require.NoError(t, WriteHTML(&buf, sequential(), nil, nil))
	require.NotContains(t, buf.String(), "Parallel speedup")
	require.NotContains(t, buf.String(), "Warnings")
}
