// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a lookup
// that resolved no row, a write that collided with a uniqueness
// constraint, and so on. Handlers translate them into HTTP status
// codes; nothing below the handler layer speaks HTTP.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by id (or another exact filter)
// yields no rows. Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a unique
// constraint, such as a duplicate member email or a duplicate
// (routine, exercise) pair. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is MySQL's duplicate-entry error
// (1062). The string fallback covers drivers and proxies that flatten
// the error before it reaches us.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "1062")
}
