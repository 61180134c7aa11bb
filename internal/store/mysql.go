// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"github.com/go-sql-driver/mysql"
)

func init() {
	dsnCheckers["mysql"] = func(dsn string) error {
		_, err := mysql.ParseDSN(dsn)
		return err
	}
}
