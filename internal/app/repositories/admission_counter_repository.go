package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/admission"
)

// AdmissionCounterRepository hands out admission sequence numbers from the per-year counter table.
type AdmissionCounterRepository struct {
	db *db.PostgresDB
}

// NewAdmissionCounterRepository creates a new AdmissionCounterRepository
func NewAdmissionCounterRepository(database *db.PostgresDB) *AdmissionCounterRepository {
	return &AdmissionCounterRepository{db: database}
}

// nextSequenceSQL increments the year's counter atomically. The first allocation of a year
// starts after the highest code already stored for that year, so counters can be introduced
// over existing data. The row lock taken by the upsert serialises concurrent allocations until
// the surrounding transaction ends, and a rollback returns the number.
const nextSequenceSQL = `
INSERT INTO admission_counters AS c (year, last_seq)
VALUES ($1, COALESCE((
	SELECT MAX(CAST(SUBSTRING(admission_code FROM $3::int) AS INTEGER))
	FROM student_data
	WHERE admission_code LIKE $2
	  AND SUBSTRING(admission_code FROM $3::int) ~ '^[0-9]+$'
), 0) + 1)
ON CONFLICT (year) DO UPDATE SET last_seq = c.last_seq + 1
RETURNING last_seq`

// NextSequence allocates the next sequence number for year inside tx.
func (r *AdmissionCounterRepository) NextSequence(ctx context.Context, tx pgx.Tx, prefix string, year int) (int, error) {
	yearPrefix := admission.YearPrefix(prefix, year)

	var seq int
	err := tx.QueryRow(ctx, nextSequenceSQL, year, yearPrefix+"%", len(yearPrefix)+1).Scan(&seq)
	if err != nil {
		return 0, wrapDBError(ctx, "allocate admission sequence", err)
	}
	return seq, nil
}

// Reserve allocates and commits the next code for year without creating a student.
func (r *AdmissionCounterRepository) Reserve(ctx context.Context, policy admission.Policy, year int) (string, error) {
	var code string
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		seq, err := r.NextSequence(ctx, tx, policy.Prefix, year)
		if err != nil {
			return err
		}
		code, err = policy.Code(year, seq)
		return err
	})
	if err != nil {
		return "", txError(ctx, "reserve admission code", err)
	}
	return code, nil
}
