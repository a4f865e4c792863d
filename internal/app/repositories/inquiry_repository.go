package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
)

// InquiryRepository stores public contact requests
type InquiryRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewInquiryRepository creates a new InquiryRepository
func NewInquiryRepository(database *db.PostgresDB) *InquiryRepository {
	return &InquiryRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts an inquiry
func (r *InquiryRepository) Create(ctx context.Context, inq *models.Inquiry) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Insert("inquiries").
		Columns("role", "name", "email", "phone", "grade", "qualification", "preferred_time", "message", "cv_path").
		Values(inq.Role, inq.Name, inq.Email, inq.Phone, inq.Grade, inq.Qualification, inq.PreferredTime, inq.Message, inq.CVPath).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create inquiry query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&inq.ID, &inq.CreatedAt); err != nil {
		return wrapDBError(ctx, "create inquiry", err)
	}
	return nil
}

// List returns inquiries newest first, optionally restricted to one role
func (r *InquiryRepository) List(ctx context.Context, role models.InquiryRole, offset uint64, limit int) ([]*models.Inquiry, int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	where := squirrel.And{}
	if role != "" {
		where = append(where, squirrel.Eq{"role": role})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("inquiries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count inquiries query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(ctx, "count inquiries", err)
	}

	q := r.sb.Select("id", "role", "name", "email", "phone", "grade", "qualification", "preferred_time", "message", "cv_path", "created_at").
		From("inquiries").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list inquiries query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrapDBError(ctx, "list inquiries", err)
	}
	defer rows.Close()

	inquiries := []*models.Inquiry{}
	for rows.Next() {
		i := &models.Inquiry{}
		if err := rows.Scan(&i.ID, &i.Role, &i.Name, &i.Email, &i.Phone, &i.Grade, &i.Qualification,
			&i.PreferredTime, &i.Message, &i.CVPath, &i.CreatedAt); err != nil {
			return nil, 0, wrapDBError(ctx, "scan inquiry", err)
		}
		inquiries = append(inquiries, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError(ctx, "iterate inquiries", err)
	}
	return inquiries, total, nil
}
