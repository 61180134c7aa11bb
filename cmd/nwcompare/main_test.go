// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/speedup"
)

var input = filepath.Join("testdata", "resultados.csv")

func TestCompare(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, []string{"-i", input}))
	out := stdout.String()

	for _, want := range []string{
		"1. SEQUENTIAL BASELINES\n",
		"    speedup:     2.500x\n",
		"    efficiency:  62.5%\n",
		"    parallel is 2.50x faster\n",
		"    1. bloques/4/static: 40.00 ms\n",
		"    2. bloques/4/dynamic,1: 50.00 ms\n",
		"    3. bloques/2/static: 62.50 ms\n",
	} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "STEP 1")
}

func TestSkippedRows(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, []string{"-i", filepath.Join("testdata", "malformado.csv")}))
	require.Contains(t, stdout.String(), "    speedup:     2.500x\n")

	log := stderr.String()
	require.Contains(t, log, "skipped malformed rows")
	require.Contains(t, log, "rows=1")
}

func TestAmdahl(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, []string{"--amdahl", input}))
	out := stdout.String()

	for _, want := range []string{
		"  p = 0.7500 = 75.00%\n",
		"  speedup     = 100.00 / 62.50 = 1.600x\n",
		"  limit = 1 / (1 - p) = 1 / 0.2500 = 4.000x\n",
		"  speedup (4 threads): 2.50x\n",
	} {
		require.Contains(t, out, want)
	}
	// 2.5x at 4 threads is above the 2.29x Amdahl bound.
	require.Contains(t, stderr.String(), "WRN")
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, []string{"-i", input, "--amdahl", "-o", dir}))
	for _, name := range []string{"speedup_ieee.png", "time_vs_size_ieee.png"} {
		st, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NotZero(t, st.Size())
	}
}

func TestNoParallel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"-i", filepath.Join("testdata", "secuencial.csv")})
	require.True(t, errors.Is(err, speedup.ErrNoParallel), "got %v", err)
	require.Equal(t, 1, cli.ExitCode(err))
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-i", input, "--format", "a4"},
		{"--bogus"},
	} {
		var stdout, stderr bytes.Buffer
		if code := cli.ExitCode(run(&stdout, &stderr, args)); code != 2 {
			t.Errorf("run(%q): exit code %d, want 2", args, code)
		}
	}
}
