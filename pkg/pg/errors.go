package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsNotFound detects pgx.ErrNoRows for uniform "absent row" handling.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation detects unique constraint violations (SQLSTATE 23505),
// which back the email and (provider, provider_account_id) invariants.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation detects referential integrity violations (23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
