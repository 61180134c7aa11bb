// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/runagg"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range ents {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"-i", filepath.Join("testdata", "promedio.csv"), "-o", dir, "--html"})
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	require.Contains(t, out, "BENCHMARK ANALYSIS SUMMARY")
	require.Contains(t, out, "Files analyzed: 3\n")
	require.Contains(t, out, "  file:        dna_2k\n")
	require.Contains(t, out, "  fill:        85.00%\n")

	require.Equal(t, []string{
		"fill_share_ieee.png",
		"phase_times_ieee.png",
		"phases_ieee.png",
		"pie_dna_2k_ieee.png",
		"resumen_analisis.html",
		"resumen_analisis.txt",
		"speedup_ieee.png",
		"time_vs_size_ieee.png",
		"total_vs_length_ieee.png",
	}, listDir(t, dir))

	summary, err := os.ReadFile(filepath.Join(dir, "resumen_analisis.txt"))
	require.NoError(t, err)
	require.Equal(t, out, string(summary))

	html, err := os.ReadFile(filepath.Join(dir, "resumen_analisis.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "Parallel speedup")
}


func TestSkippedRows(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "promedio.csv"))
	require.NoError(t, err)
	dir := t.TempDir()
	in := filepath.Join(dir, "promedio.csv")
	data = append(data, "data/dna_1k.fasta,secuencial,uno,,1000,1000,1,-1,-2,3,10,80,10,100,500\n"...)
	require.NoError(t, os.WriteFile(in, data, 0666))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, []string{"-i", in, "-o", filepath.Join(dir, "out")}), stderr.String())
	require.Contains(t, stdout.String(), "Files analyzed: 3\n")

	log := stderr.String()
	require.Contains(t, log, "skipped malformed rows")
	require.Contains(t, log, "rows=1")
}

func TestPieFile(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"-i", filepath.Join("testdata", "promedio.csv"), "-o", dir, "-a", `data\protein_500.fasta`})
	require.NoError(t, err, stderr.String())
	require.Contains(t, listDir(t, dir), "pie_protein_500_ieee.png")

	err = run(&stdout, &stderr, []string{"-i", filepath.Join("testdata", "promedio.csv"), "-o", t.TempDir(), "-a", "dna_64k"})
	require.Error(t, err)
	require.Equal(t, 1, cli.ExitCode(err))
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-i", "a.csv", "--format", "a4"},
		{"-i", "a.csv", "b.csv"},
	} {
		var stdout, stderr bytes.Buffer
		err := run(&stdout, &stderr, args)
		if code := cli.ExitCode(err); code != 2 {
			t.Errorf("run(%q): exit code %d (%v), want 2", args, code, err)
		}
	}
}

func TestFind(t *testing.T) {
	par := &runagg.Group{Key: runagg.Key{File: "data/dna_1k.fasta", Method: "bloques", Threads: 4}}
	seq := &runagg.Group{Key: runagg.Key{File: `data\dna_1k.fasta`, Method: "secuencial", Threads: 1}}
	other := &runagg.Group{Key: runagg.Key{File: "data/dna_2k.fasta", Method: "bloques", Threads: 4}}
	groups := []*runagg.Group{par, seq, other}

	for _, name := range []string{"data/dna_1k.fasta", `data\dna_1k.fasta`, "dna_1k.fasta", "dna_1k"} {
		if g := find(groups, name); g != seq {
			t.Errorf("find(%q) = %v, want the sequential dna_1k group", name, g)
		}
	}
	if g := find(groups, "dna_2k"); g != other {
		t.Errorf("find(dna_2k) = %v, want the parallel group", g)
	}
	if g := find(groups, "1k"); g != nil {
		t.Errorf("find(1k) = %v, want nil", g)
	}
}
