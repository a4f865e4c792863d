package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/logger"
)

const feeSelectColumns = "fee_id, institute_name, student_name, amount::text, payment_date, payment_method, status, remark, created_at"

// upsertFeeSQL writes a fee in one statement. xmax is zero only for a freshly inserted tuple,
// which tells an insert apart from an update without a second round trip.
const upsertFeeSQL = `
INSERT INTO student_fees (fee_id, institute_name, student_name, amount, payment_date, payment_method, status, remark, created_at)
VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8, $9)
ON CONFLICT (fee_id) DO UPDATE SET
	institute_name = EXCLUDED.institute_name,
	student_name   = EXCLUDED.student_name,
	amount         = EXCLUDED.amount,
	payment_date   = EXCLUDED.payment_date,
	payment_method = EXCLUDED.payment_method,
	status         = EXCLUDED.status,
	remark         = EXCLUDED.remark,
	created_at     = EXCLUDED.created_at
RETURNING (xmax = 0) AS inserted, amount::text, created_at`

// FeeRepository handles student_fees operations
type FeeRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(database *db.PostgresDB) *FeeRepository {
	return &FeeRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanFee(row pgx.Row) (*models.Fee, error) {
	f := &models.Fee{}
	var amount string
	if err := row.Scan(&f.FeeID, &f.InstituteName, &f.StudentName, &amount, &f.PaymentDate,
		&f.PaymentMethod, &f.Status, &f.Remark, &f.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	f.Amount = d
	return f, nil
}

// Upsert inserts the fee or replaces every mutable column of the existing row with the same fee_id.
// It reports whether a new row was created. The stored amount is copied back into fee.
func (r *FeeRepository) Upsert(ctx context.Context, fee *models.Fee) (bool, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var (
		inserted bool
		amount   string
	)
	err := r.db.Pool.QueryRow(ctx, upsertFeeSQL,
		fee.FeeID, fee.InstituteName, fee.StudentName, fee.Amount.StringFixed(2), fee.PaymentDate,
		fee.PaymentMethod, fee.Status, fee.Remark, fee.CreatedAt,
	).Scan(&inserted, &amount, &fee.CreatedAt)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("feeID", fee.FeeID).Msg("Fee upsert failed")
		return false, wrapDBError(ctx, "save fee", err)
	}

	if d, err := decimal.NewFromString(amount); err == nil {
		fee.Amount = d
	}
	return inserted, nil
}

// GetByID retrieves a fee by its business key
func (r *FeeRepository) GetByID(ctx context.Context, feeID string) (*models.Fee, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Select(feeSelectColumns).
		From("student_fees").
		Where(squirrel.Eq{"fee_id": feeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get fee query: %w", err)
	}

	fee, err := scanFee(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, wrapDBError(ctx, "get fee", err)
	}
	return fee, nil
}

// MarkPaid moves a fee to Paid. The second return value is false when the fee was already paid,
// in which case the stored row is returned untouched.
func (r *FeeRepository) MarkPaid(ctx context.Context, feeID string) (*models.Fee, bool, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Update("student_fees").
		Set("status", models.FeePaid).
		Where(squirrel.Eq{"fee_id": feeID}).
		Where(squirrel.NotEq{"status": models.FeePaid}).
		Suffix("RETURNING " + feeSelectColumns).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build mark paid query: %w", err)
	}

	fee, err := scanFee(r.db.Pool.QueryRow(ctx, sql, args...))
	if err == nil {
		return fee, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, wrapDBError(ctx, "mark fee paid", err)
	}

	// Either missing or already paid.
	fee, err = r.GetByID(ctx, feeID)
	if err != nil {
		return nil, false, err
	}
	return fee, false, nil
}

func (r *FeeRepository) applyFilter(q squirrel.SelectBuilder, filter models.FeeFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.InstituteName != "" {
		q = q.Where(squirrel.Eq{"institute_name": filter.InstituteName})
	}
	if filter.StudentName != "" {
		q = q.Where("LOWER(student_name) = LOWER(?)", filter.StudentName)
	}
	return q
}

// List returns fees matching filter, most recent payment first, with the total count.
func (r *FeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]*models.Fee, int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	countSQL, countArgs, err := r.applyFilter(r.sb.Select("COUNT(*)").From("student_fees"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count fees query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(ctx, "count fees", err)
	}

	q := r.applyFilter(r.sb.Select(feeSelectColumns).From("student_fees"), filter).
		OrderBy("payment_date DESC", "fee_id").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list fees query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrapDBError(ctx, "list fees", err)
	}
	defer rows.Close()

	fees := []*models.Fee{}
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, 0, wrapDBError(ctx, "scan fee", err)
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError(ctx, "iterate fees", err)
	}
	return fees, total, nil
}
