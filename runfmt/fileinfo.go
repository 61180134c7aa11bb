// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// FileInfo is what can be learned about an input sequence from its
// file name alone.
type FileInfo struct {
	// Label is the base name without the ".fasta" extension.
	Label string

	// Type is "dna" if the name mentions dna, and "protein" otherwise.
	Type string

	// Length is the nominal sequence length encoded in the name, or 0.
	// "dna_32k.fasta" has length 32000 and "dna_128.fasta" has 128.
	Length int
}

var (
	kiloLength  = regexp.MustCompile(`(\d+)k`)
	plainLength = regexp.MustCompile(`_(\d+)\.fasta`)
)

// ParseFileName returns the FileInfo for a sequence file path.
// Both slash and backslash separators are accepted.
func ParseFileName(name string) FileInfo {
	base := path.Base(NormalizePath(name))
	label := strings.Replace(base, ".fasta", "", 1)
	info := FileInfo{Label: label, Type: "protein"}
	if strings.Contains(strings.ToLower(label), "dna") {
		info.Type = "dna"
	}
	if m := kiloLength.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		info.Length = n * 1000
	} else if m := plainLength.FindStringSubmatch(base); m != nil {
		info.Length, _ = strconv.Atoi(m[1])
	}
	return info
}

// NormalizePath rewrites backslash separators as slashes, so paths
// recorded on Windows and Unix compare equal.
func NormalizePath(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}
