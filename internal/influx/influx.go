// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package influx exports aggregated benchmark groups to InfluxDB.
package influx

import (
	"context"
	"math"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

// Measurement is the InfluxDB measurement name of exported points.
const Measurement = "nw_benchmark"

// Config locates an InfluxDB bucket.
type Config struct {
	URL, Token, Org, Bucket string
}

// Open returns a blocking writer for c's bucket. The returned function
// closes the client.
func Open(c Config) (api.WriteAPIBlocking, func()) {
	client := influxdb2.NewClient(c.URL, c.Token)
	return client.WriteAPIBlocking(c.Org, c.Bucket), client.Close
}

// Point returns the point for g at time t. The configuration key
// becomes tags and each present measure a field. Missing measures
// are left out because InfluxDB has no NaN.
func Point(g *runagg.Group, t time.Time) *write.Point {
	k := g.Key
	p := influxdb2.NewPointWithMeasurement(Measurement).
		AddTag("file", runfmt.NormalizePath(k.File)).
		AddTag("method", k.Method).
		AddTag("threads", strconv.Itoa(k.Threads)).
		AddTag("length_a", strconv.Itoa(k.LengthA)).
		AddTag("length_b", strconv.Itoa(k.LengthB)).
		AddTag("scoring", strconv.Itoa(k.Match)+","+strconv.Itoa(k.Mismatch)+","+strconv.Itoa(k.Gap)).
		AddField("repetitions", g.Count).
		SetTime(t)
	if k.Schedule != "" {
		p.AddTag("schedule", k.Schedule)
	}
	for _, f := range runfmt.Measures {
		if v := g.Value(f); !math.IsNaN(v) && !math.IsInf(v, 0) {
			p.AddField(f.String(), v)
		}
	}
	return p.SortTags().SortFields()
}

// Export writes one point per group, all stamped with t.
func Export(ctx context.Context, w api.WriteAPIBlocking, groups []*runagg.Group, t time.Time) error {
	if len(groups) == 0 {
		return nil
	}
	points := make([]*write.Point, len(groups))
	for i, g := range groups {
		points[i] = Point(g, t)
	}
	return w.WritePoint(ctx, points...)
}
