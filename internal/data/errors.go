package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write breaks a unique or foreign key constraint.
	ErrConflict = errors.New("record conflicts with existing data")
)

// translate maps driver constraint errors onto ErrConflict.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if isConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// unique_violation, foreign_key_violation
		return pgErr.Code == "23505" || pgErr.Code == "23503"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_DUP_ENTRY, ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2
		return myErr.Number == 1062 || myErr.Number == 1451 || myErr.Number == 1452
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// insert runs a named INSERT and returns the new row's id. MySQL has no
// RETURNING clause, so it falls back to LastInsertId there.
func insert(ctx context.Context, db *sqlx.DB, query string, arg interface{}) (int64, error) {
	if db.DriverName() == "mysql" {
		res, err := db.NamedExecContext(ctx, query, arg)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	rows, err := db.NamedQueryContext(ctx, query+" RETURNING id", arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("insert returned no id")
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// mustAffect turns a zero-row update or delete into ErrNotFound.
func mustAffect(res interface{ RowsAffected() (int64, error) }, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no %s with id %d: %w", what, id, ErrNotFound)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
