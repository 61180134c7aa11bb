// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storetest opens empty databases for tests.
package storetest

import (
	"context"
	"flag"
	"testing"

	"github.com/nwalign/nwperf/internal/store"
)

var mysqlDSN = flag.String("mysql", "", "MySQL `dsn` of an empty database to test against instead of in-memory SQLite")

// NewDB makes a connection to a testing database, either in-memory
// sqlite3 or the MySQL database named by the -mysql flag. The database
// is closed when the test ends.
func NewDB(t *testing.T) *store.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *mysqlDSN != "" {
		driverName, dataSourceName = "mysql", *mysqlDSN
	}
	d, err := store.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	n, err := d.CountAggregations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("found %d row(s) in Aggregations, want 0", n)
	}
	return d
}
