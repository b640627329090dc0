// Package repository implements the reservation store on top of
// database/sql. Every method returns errors wrapping model sentinels:
// a model.NotFoundError (matching model.ErrNotFound) when a row does not
// exist, model.ErrConflict when a
// unique key is violated and model.ErrStorage for anything else. Callers
// never see sql.ErrNoRows. There are no retries; a failed statement fails
// the operation.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", model.ErrNotFound, op)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", model.ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
}

// lookupErr reports a missing row as a model.NotFoundError naming what.
func lookupErr(what, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, &model.NotFoundError{What: what})
	}
	return wrapErr(op, err)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return false
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '?')
	}
	return string(b)
}
