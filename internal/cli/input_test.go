// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

const header = "archivo_fasta,metodo,threads,schedule,repeticion,longitud_A,longitud_B,match,mismatch,gap,tiempo_init_ms,tiempo_llenado_ms,tiempo_traceback_ms,tiempo_total_ms,puntuacion\n"

func writeInput(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0666))
	return path
}

func TestReadGroups(t *testing.T) {
	path := writeInput(t, header+
		"dna_1k.fasta,secuencial,1,,0,1000,1000,1,-1,-2,10,80,10,100,500\n"+
		"dna_1k.fasta,secuencial,1,,1,1000,1000,1,-1,-2,12,n/a,10,100,500\n"+
		"dna_1k.fasta,bloques,4,dynamic,1,0,1000,1000,1,-1,-2,5,30,5,40,500\n"+
		"dna_1k.fasta,bloques,4,static,0,1000,1000,1,-1,-2,4,,3,27,500\n")

	var log bytes.Buffer
	in, err := ReadGroups(NewLogger(&log, false), path)
	require.NoError(t, err)

	require.Equal(t, 4, in.Rows)
	require.Len(t, in.Skipped, 1)
	require.Len(t, in.Groups, 2)
	require.Equal(t, map[runfmt.Field]int{runfmt.Fill: 2}, in.Missing)
	require.Equal(t, 80.0, in.Groups[0].Value(runfmt.Fill))

	// Counts are visible without verbose logging; row detail is not.
	out := log.String()
	require.Contains(t, out, "skipped malformed rows")
	require.Contains(t, out, "rows=1")
	require.Contains(t, out, "column=tiempo_llenado_ms")
	require.Contains(t, out, "cells=2")
	require.NotContains(t, out, "has 16 fields")

	log.Reset()
	_, err = ReadGroups(NewLogger(&log, true), path)
	require.NoError(t, err)
	require.Contains(t, log.String(), "in.csv:4: has 16 fields, want 15")
}

func TestReadGroupsClean(t *testing.T) {
	path := writeInput(t, header+
		"dna_1k.fasta,secuencial,1,,0,1000,1000,1,-1,-2,10,80,10,100,500\n")

	var log bytes.Buffer
	in, err := ReadGroups(NewLogger(&log, false), path)
	require.NoError(t, err)
	require.Empty(t, in.Skipped)
	require.Empty(t, in.Missing)
	require.Empty(t, strings.TrimSpace(log.String()))
}

func TestReadGroupsNoRows(t *testing.T) {
	path := writeInput(t, header+
		"dna_1k.fasta,secuencial,x,,0,1000,1000,1,-1,-2,10,80,10,100,500\n")

	var log bytes.Buffer
	_, err := ReadGroups(NewLogger(&log, false), path)
	require.True(t, errors.Is(err, runagg.ErrNoRows), "got %v", err)
	require.Contains(t, log.String(), "rows=1")
}
