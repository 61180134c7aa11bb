// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package promfile writes aggregated benchmark groups as a Prometheus
// textfile, for collection by the node exporter.
package promfile

import (
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

var labels = []string{"file", "method", "threads", "schedule", "length"}

// Registry returns a registry holding one gauge per group and
// present measure, and the repetition count of each group.
func Registry(groups []*runagg.Group) (*prometheus.Registry, error) {
	phase := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nw",
		Name:      "phase_milliseconds",
		Help:      "Mean time of a benchmark phase in milliseconds.",
	}, append(labels, "phase"))
	score := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nw",
		Name:      "alignment_score",
		Help:      "Mean alignment score.",
	}, labels)
	reps := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nw",
		Name:      "repetitions",
		Help:      "Number of runs averaged.",
	}, labels)

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{phase, score, reps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	for _, g := range groups {
		k := g.Key
		lv := []string{runfmt.NormalizePath(k.File), k.Method, strconv.Itoa(k.Threads), k.Schedule, strconv.Itoa(k.LengthA)}
		reps.WithLabelValues(lv...).Set(float64(g.Count))
		for _, f := range runfmt.Measures {
			v := g.Value(f)
			if math.IsNaN(v) {
				continue
			}
			if f == runfmt.Score {
				score.WithLabelValues(lv...).Set(v)
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(f.String(), "tiempo_"), "_ms")
			phase.WithLabelValues(append(lv, name)...).Set(v)
		}
	}
	return reg, nil
}

// Write writes the gauges for groups to path. The file is replaced
// atomically.
func Write(path string, groups []*runagg.Group) error {
	reg, err := Registry(groups)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
