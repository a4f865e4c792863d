package dberrors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL SQLSTATE codes the application reacts to.
const (
	CodeStringTooLong        = "22001"
	CodeUniqueViolation      = "23505"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeQueryCanceled        = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func IsDuplicateKeyError(err error) bool {
	return pgCode(err) == CodeUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsValueTooLong reports a value wider than its VARCHAR column.
func IsValueTooLong(err error) bool {
	return pgCode(err) == CodeStringTooLong
}

// IsCheckViolation reports a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	return pgCode(err) == CodeCheckViolation
}

// IsRetryableConflict reports errors that a fresh attempt of the same transaction may resolve:
// unique violations raced by a concurrent writer, serialization failures and deadlocks.
func IsRetryableConflict(err error) bool {
	switch pgCode(err) {
	case CodeUniqueViolation, CodeSerializationFailure, CodeDeadlockDetected:
		return true
	}
	return false
}

// IsTimeout reports a context deadline or a statement cancelled by the server.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	return pgCode(err) == CodeQueryCanceled
}
