// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all catalog, blog and
// user entities. Each store struct wraps a *sql.DB and exposes typed query
// methods.
package store

import (
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateSlug is returned when an insert collides with an existing
// unique slug (or another unique column).
var ErrDuplicateSlug = errors.New("duplicate slug")

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface{ Scan(...any) error }

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// argList accumulates positional query arguments.
type argList []any

// add appends v and returns its placeholder.
func (a *argList) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}
