// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store saves aggregated benchmark groups in a SQL database.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

// DB is a database of aggregations. It's safe for concurrent use by
// multiple goroutines.
type DB struct {
	sql *sql.DB

	insertAggregation *sql.Stmt
	insertRecord      *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Aggregations (
	AggregationID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024),
	Created VARCHAR(64)
);
CREATE TABLE IF NOT EXISTS AggregatedRecords (
	AggregationID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	File VARCHAR(1024),
	Method VARCHAR(255),
	Threads INT,
	ScheduleName VARCHAR(255),
	LengthA INT,
	LengthB INT,
	MatchScore INT,
	MismatchScore INT,
	GapPenalty INT,
	Repetitions INT,
	InitMs DOUBLE,
	FillMs DOUBLE,
	TracebackMs DOUBLE,
	TotalMs DOUBLE,
	Score DOUBLE,
{{if not .sqlite3}}
	Index (Method(100), Threads),
{{end}}
	PRIMARY KEY (AggregationID, RecordID),
	FOREIGN KEY (AggregationID) REFERENCES Aggregations(AggregationID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS AggregatedRecordsMethodThreads ON AggregatedRecords(Method, Threads);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

const recordColumns = "File, Method, Threads, ScheduleName, LengthA, LengthB, MatchScore, MismatchScore, GapPenalty, Repetitions, InitMs, FillMs, TracebackMs, TotalMs, Score"

func (db *DB) prepareStatements() error {
	var err error
	db.insertAggregation, err = db.sql.Prepare("INSERT INTO Aggregations(Source, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO AggregatedRecords(AggregationID, RecordID, " + recordColumns + ") VALUES (?, ?" + strings.Repeat(", ?", 15) + ")")
	return err
}

// now is a hook for testing.
var now = time.Now

// InsertGroups stores groups as one new aggregation of source and
// returns its ID. Either every group is stored or none is. Missing
// measures are stored as NULL.
func (db *DB) InsertGroups(ctx context.Context, source string, groups []*runagg.Group) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.StmtContext(ctx, db.insertAggregation).ExecContext(ctx, source, now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}
	stmt := tx.StmtContext(ctx, db.insertRecord)
	for i, g := range groups {
		k := g.Key
		args := []interface{}{id, i, k.File, k.Method, k.Threads, k.Schedule, k.LengthA, k.LengthB, k.Match, k.Mismatch, k.Gap, g.Count}
		for _, f := range runfmt.Measures {
			args = append(args, nullFloat(g.Value(f)))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("inserting %v: %w", k, err)
		}
	}
	return id, nil
}

func nullFloat(x float64) sql.NullFloat64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}

// Records returns the stored groups of aggregation id as runs, in
// insertion order. NULL measures are NaN.
func (db *DB) Records(ctx context.Context, id int64) ([]*runfmt.Run, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT "+recordColumns+" FROM AggregatedRecords WHERE AggregationID = ? ORDER BY RecordID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*runfmt.Run
	for rows.Next() {
		r := runfmt.NewRun()
		var vals [runfmt.NumMeasures]sql.NullFloat64
		dest := []interface{}{&r.File, &r.Method, &r.Threads, &r.Schedule, &r.LengthA, &r.LengthB, &r.Match, &r.Mismatch, &r.Gap, &r.Count}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			r.Values[i] = math.NaN()
			if v.Valid {
				r.Values[i] = v.Float64
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountAggregations returns the number of stored aggregations.
func (db *DB) CountAggregations(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Aggregations").Scan(&n)
	return n, err
}

// CountRecords returns the number of stored groups across all
// aggregations.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM AggregatedRecords").Scan(&n)
	return n, err
}

// Close closes the database connections.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertAggregation, db.insertRecord} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return db.sql.Close()
}

var dsnCheckers = make(map[string]func(string) error)

// ParseDSN splits a "driver:dsn" flag value, checking the data source
// name if the driver has a syntax for it.
func ParseDSN(s string) (driverName, dataSourceName string, err error) {
	driverName, dataSourceName, ok := strings.Cut(s, ":")
	if !ok || driverName == "" || dataSourceName == "" {
		return "", "", fmt.Errorf("database %q: want driver:dsn", s)
	}
	if check := dsnCheckers[driverName]; check != nil {
		if err := check(dataSourceName); err != nil {
			return "", "", fmt.Errorf("database %q: %v", s, err)
		}
	}
	return driverName, dataSourceName, nil
}
