package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/dberrors"
)

var instituteColumns = []string{
	"id", "name", "address", "contact", "office_incharge", "incharge_contact", "status", "created_at", "updated_at",
}

// InstituteRepository handles institute_branch operations
type InstituteRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewInstituteRepository creates a new InstituteRepository
func NewInstituteRepository(database *db.PostgresDB) *InstituteRepository {
	return &InstituteRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanInstitute(row pgx.Row) (*models.Institute, error) {
	i := &models.Institute{}
	err := row.Scan(&i.ID, &i.Name, &i.Address, &i.Contact, &i.OfficeIncharge, &i.InchargeContact,
		&i.Status, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// Create inserts a branch
func (r *InstituteRepository) Create(ctx context.Context, inst *models.Institute) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if inst.Status == "" {
		inst.Status = models.StatusActive
	}

	sql, args, err := r.sb.Insert("institute_branch").
		Columns("name", "address", "contact", "office_incharge", "incharge_contact", "status").
		Values(inst.Name, inst.Address, inst.Contact, inst.OfficeIncharge, inst.InchargeContact, inst.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create institute query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "institute_branch_name_key") {
			return apperrors.ErrInstituteAlreadyExists
		}
		return wrapDBError(ctx, "create institute", err)
	}
	return nil
}

// GetByID retrieves a branch by ID
func (r *InstituteRepository) GetByID(ctx context.Context, id int64) (*models.Institute, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Select(instituteColumns...).
		From("institute_branch").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get institute query: %w", err)
	}

	inst, err := scanInstitute(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstituteNotFound
		}
		return nil, wrapDBError(ctx, "get institute", err)
	}
	return inst, nil
}

// ExistsByName reports whether a branch with this name exists, ignoring case
func (r *InstituteRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM institute_branch WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, wrapDBError(ctx, "check institute name", err)
	}
	return exists, nil
}

// List returns every branch ordered by name. activeOnly hides inactive branches.
func (r *InstituteRepository) List(ctx context.Context, activeOnly bool) ([]*models.Institute, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	q := r.sb.Select(instituteColumns...).From("institute_branch").OrderBy("name")
	if activeOnly {
		q = q.Where(squirrel.Eq{"status": models.StatusActive})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list institutes query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBError(ctx, "list institutes", err)
	}
	defer rows.Close()

	institutes := []*models.Institute{}
	for rows.Next() {
		inst, err := scanInstitute(rows)
		if err != nil {
			return nil, wrapDBError(ctx, "scan institute", err)
		}
		institutes = append(institutes, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(ctx, "iterate institutes", err)
	}
	return institutes, nil
}

// Update saves the editable branch fields
func (r *InstituteRepository) Update(ctx context.Context, inst *models.Institute) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Update("institute_branch").
		Set("name", inst.Name).
		Set("address", inst.Address).
		Set("contact", inst.Contact).
		Set("office_incharge", inst.OfficeIncharge).
		Set("incharge_contact", inst.InchargeContact).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": inst.ID}).
		Suffix("RETURNING status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update institute query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&inst.Status, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrInstituteNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, "institute_branch_name_key") {
			return apperrors.ErrInstituteAlreadyExists
		}
		return wrapDBError(ctx, "update institute", err)
	}
	return nil
}

// Delete removes a branch
func (r *InstituteRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM institute_branch WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(ctx, "delete institute", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstituteNotFound
	}
	return nil
}

// ToggleStatus flips active/inactive in one statement and returns the new status.
func (r *InstituteRepository) ToggleStatus(ctx context.Context, id int64) (models.ActiveStatus, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var status models.ActiveStatus
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE institute_branch
		SET status = CASE status WHEN 'active' THEN 'inactive' ELSE 'active' END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING status`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrInstituteNotFound
		}
		return "", wrapDBError(ctx, "toggle institute", err)
	}
	return status, nil
}
