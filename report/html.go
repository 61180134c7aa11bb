// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
	"github.com/nwalign/nwperf/speedup"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { padding: 0.2em 0.6em; border-bottom: 1px solid #ddd; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Files analyzed: {{len .Files}}</p>
<h2>Phase statistics (% of total time)</h2>
<table class="phases">
<tr><th>phase<th>mean<th>min<th>max<th>median
{{range .Phases -}}
<tr><td>{{.Name}}<td class="num">{{.Mean}}<td class="num">{{.Min}}<td class="num">{{.Max}}<td class="num">{{.Median}}
{{end -}}
</table>
<h2>Per-file detail</h2>
<table class="files">
<tr><th>file<th>length<th>init<th>fill<th>traceback<th>total ms
{{range .Files -}}
<tr><td>{{.Label}}<td class="num">{{.Length}}<td class="num">{{.Init}}<td class="num">{{.Fill}}<td class="num">{{.Traceback}}<td class="num">{{.Total}}
{{end -}}
</table>
{{- if .Rows}}
<h2>Parallel speedup</h2>
<table class="speedup">
<tr><th>file<th>configuration<th>total ms<th>speedup<th>efficiency
{{range .Rows -}}
<tr><td>{{.File}}<td>{{.Config}}<td class="num">{{.Total}}<td class="num">{{.Speedup}}<td class="num">{{.Efficiency}}
{{end -}}
</table>
{{- end}}
{{- if .Warnings}}
<h2>Warnings</h2>
<ul>
{{range .Warnings}}<li>{{.}}
{{end -}}
</ul>
{{- end}}
</body>
</html>
`))

type htmlData struct {
	Title    string
	Phases   []htmlPhase
	Files    []htmlFile
	Rows     []htmlRow
	Warnings []string
}

type htmlPhase struct {
	Name                   string
	Mean, Min, Max, Median string
}

type htmlFile struct {
	Label, Length                string
	Init, Fill, Traceback, Total string
}

type htmlRow struct {
	File, Config, Total, Speedup, Efficiency string
}

// WriteHTML writes an HTML page with the phase breakdown of groups
// and, if t is not nil, the speedup of every parallel configuration.
// All data is escaped for its context.
func WriteHTML(w io.Writer, groups []*runagg.Group, t *speedup.Table, warnings []error) error {
	groups = append([]*runagg.Group(nil), groups...)
	runagg.SortByTypeAndLength(groups)

	d := htmlData{Title: "Needleman-Wunsch benchmark analysis"}
	for i, s := range PhaseStats(groups) {
		d.Phases = append(d.Phases, htmlPhase{Phases[i].Name, pct(s.Mean), pct(s.Min), pct(s.Max), pct(s.Median)})
	}
	for _, g := range groups {
		pc := runmath.GroupPercentages(g)
		d.Files = append(d.Files, htmlFile{
			Label:     g.Info().Label,
			Length:    fmt.Sprint(g.Key.LengthA),
			Init:      pct(pc.Init),
			Fill:      pct(pc.Fill),
			Traceback: pct(pc.Traceback),
			Total:     ms(g.Value(runfmt.Total)),
		})
	}
	if t != nil {
		for _, r := range t.Rows {
			d.Rows = append(d.Rows, htmlRow{
				File:       runfmt.NormalizePath(r.Group.Key.File),
				Config:     config(r.Group.Key),
				Total:      ms(r.Group.Value(runfmt.Total)),
				Speedup:    times(r.Speedup),
				Efficiency: num(r.Efficiency, 1) + "%",
			})
		}
	}
	for _, err := range warnings {
		d.Warnings = append(d.Warnings, err.Error())
	}
	return htmlTemplate.Execute(w, d)
}
