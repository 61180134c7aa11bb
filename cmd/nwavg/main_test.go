// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nwalign/nwperf/internal/cli"
	"github.com/nwalign/nwperf/internal/store"
)

// inTempDir runs the test in a temporary directory holding a copy of
// the named testdata files.
func inTempDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0666); err != nil {
			t.Fatal(err)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return wd
}

func TestAverage(t *testing.T) {
	wd := inTempDir(t, "resultados.csv")

	var stdout, stderr bytes.Buffer
	if err := run(&stdout, &stderr, []string{"-i", "resultados.csv"}); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}
	compare(t, filepath.Join(wd, "testdata", "resultados.stdout"), stdout.Bytes())

	got, err := os.ReadFile("resultados_promedio.csv")
	if err != nil {
		t.Fatal(err)
	}
	compare(t, filepath.Join(wd, "testdata", "resultados_promedio.csv"), got)

	// A second run produces identical output.
	stdout.Reset()
	if err := run(&stdout, &stderr, []string{"-i", "resultados.csv", "-o", "again.csv"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := os.ReadFile("again.csv")
	if err != nil {
		t.Fatal(err)
	}
	compare(t, filepath.Join(wd, "testdata", "resultados_promedio.csv"), again)
}

func TestRepairSchedule(t *testing.T) {
	inTempDir(t, "resultados.csv")

	var stdout, stderr bytes.Buffer
	if err := run(&stdout, &stderr, []string{"--repair-schedule", "-v", "resultados.csv"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Skipped rows:      0\n") {
		t.Errorf("stdout:\n%s\nwant no skipped rows", stdout.String())
	}
	got, err := os.ReadFile("resultados_promedio.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `bloques,4,"dynamic,1",1000,1000,1,-1,-2,2,5,31,5,41,500`) {
		t.Errorf("repaired schedule not averaged:\n%s", got)
	}
}

func TestSkippedRowLogged(t *testing.T) {
	inTempDir(t, "resultados.csv")

	var stdout, stderr bytes.Buffer
	if err := run(&stdout, &stderr, []string{"-v", "-i", "resultados.csv"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "resultados.csv:9: has 16 fields, want 15") {
		t.Errorf("stderr:\n%s\nwant the skipped row logged", stderr.String())
	}
}

func TestMissingValues(t *testing.T) {
	inTempDir(t)
	data := "archivo_fasta,metodo,threads,schedule,repeticion,longitud_A,longitud_B,match,mismatch,gap,tiempo_init_ms,tiempo_llenado_ms,tiempo_traceback_ms,tiempo_total_ms,puntuacion\n" +
		"dna_1k.fasta,secuencial,1,,0,1000,1000,1,-1,-2,10,80,10,100,500\n" +
		"dna_1k.fasta,secuencial,1,,1,1000,1000,1,-1,-2,12,n/a,10,100,500\n"
	if err := os.WriteFile("huecos.csv", []byte(data), 0666); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run(&stdout, &stderr, []string{"-i", "huecos.csv"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Missing values:    1 in tiempo_llenado_ms\n"; !strings.Contains(stdout.String(), want) {
		t.Errorf("stdout:\n%s\nwant %q", stdout.String(), want)
	}
	if !strings.Contains(stderr.String(), "cells=1") {
		t.Errorf("stderr:\n%s\nwant the missing cell count logged", stderr.String())
	}
	got, err := os.ReadFile("huecos_promedio.csv")
	if err != nil {
		t.Fatal(err)
	}
	if want := "dna_1k.fasta,secuencial,1,,1000,1000,1,-1,-2,2,11,80,10,100,500\n"; !strings.Contains(string(got), want) {
		t.Errorf("averages:\n%s\nwant %q", got, want)
	}
}

func TestExports(t *testing.T) {
	inTempDir(t, "resultados.csv")

	var (
		mu     sync.Mutex
		points int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		points += len(strings.Split(strings.TrimSpace(string(body)), "\n"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{
		"-i", "resultados.csv",
		"--db", "sqlite3:nw.db",
		"--prom-textfile", "nw.prom",
		"--influx-url", srv.URL, "--influx-org", "lab", "--influx-bucket", "nw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}
	mu.Lock()
	defer mu.Unlock()
	if points != 4 {
		t.Errorf("InfluxDB received %d points, want 4", points)
	}

	db, err := store.OpenSQL("sqlite3", "nw.db")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if n, err := db.CountRecords(context.Background()); err != nil || n != 4 {
		t.Errorf("CountRecords() = %d, %v, want 4", n, err)
	}

	prom, err := os.ReadFile("nw.prom")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prom), "nw_repetitions{") {
		t.Errorf("nw.prom has no repetition gauges:\n%s", prom)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-i", "a.csv", "b.csv"},
		{"--no-such-flag"},
		{"-i", "a.csv", "--db", "nodriver"},
	} {
		var stdout, stderr bytes.Buffer
		err := run(&stdout, &stderr, args)
		if code := cli.ExitCode(err); code != 2 {
			t.Errorf("run(%q): exit code %d (%v), want 2", args, code, err)
		}
	}

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"-i", "does-not-exist.csv"})
	if code := cli.ExitCode(err); code != 1 {
		t.Errorf("missing input: exit code %d (%v), want 1", code, err)
	}
}

func compare(t *testing.T, wantPath string, got []byte) {
	t.Helper()
	want, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(want, got) {
		return
	}

	d := t.TempDir()
	w, g := filepath.Join(d, "want"), filepath.Join(d, "got")
	os.WriteFile(w, want, 0666)
	os.WriteFile(g, got, 0666)
	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = d
	data, _ := cmd.CombinedOutput()
	if len(data) > 0 {
		t.Errorf("%s:\n%s", filepath.Base(wantPath), data)
	} else {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}
