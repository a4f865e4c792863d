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
	"github.com/vemac/institute/internal/pkg/logger"
)

var userColumns = []string{
	"id", "username", "email", "name", "phone", "password_hash", "role",
	"institute_name", "status", "created_at", "updated_at",
}

// UserRepository handles users table operations
type UserRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.PasswordHash, &u.Role,
		&u.InstituteName, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// uniqueUserError maps the users unique constraints to domain conflicts.
func uniqueUserError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
		return apperrors.ErrUsernameAlreadyExists
	}
	return nil
}

// Create inserts a user and fills in the generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if user.Status == "" {
		user.Status = models.StatusActive
	}

	sql, args, err := r.sb.Insert("users").
		Columns("username", "email", "name", "phone", "password_hash", "role", "institute_name", "status").
		Values(user.Username, user.Email, user.Name, user.Phone, user.PasswordHash, user.Role, user.InstituteName, user.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if conflict := uniqueUserError(err); conflict != nil {
			logger.Ctx(ctx).Warn().Str("username", user.Username).Msg("Attempted to create duplicate user")
			return conflict
		}
		return wrapDBError(ctx, "create user", err)
	}

	logger.Ctx(ctx).Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, wrapDBError(ctx, "get user", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByLogin retrieves a user by email or username, case-insensitively.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Or{
		squirrel.Expr("LOWER(email) = LOWER(?)", login),
		squirrel.Expr("LOWER(username) = LOWER(?)", login),
	})
}

func (r *UserRepository) applyFilter(q squirrel.SelectBuilder, filter models.UserFilter) squirrel.SelectBuilder {
	if filter.Role != "" {
		q = q.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": p},
			squirrel.ILike{"username": p},
			squirrel.ILike{"email": p},
		})
	}
	return q
}

// List returns users matching filter ordered by name, with the total count
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	countSQL, countArgs, err := r.applyFilter(r.sb.Select("COUNT(*)").From("users"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(ctx, "count users", err)
	}

	q := r.applyFilter(r.sb.Select(userColumns...).From("users"), filter).
		OrderBy("name", "id").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrapDBError(ctx, "list users", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, wrapDBError(ctx, "scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError(ctx, "iterate users", err)
	}
	return users, total, nil
}

// Update saves profile fields. The password hash is only written when set.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	q := r.sb.Update("users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("name", user.Name).
		Set("phone", user.Phone).
		Set("role", user.Role).
		Set("institute_name", user.InstituteName).
		Set("updated_at", squirrel.Expr("NOW()"))
	if user.PasswordHash != "" {
		q = q.Set("password_hash", user.PasswordHash)
	}

	sql, args, err := q.Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		if conflict := uniqueUserError(err); conflict != nil {
			return conflict
		}
		return wrapDBError(ctx, "update user", err)
	}
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(ctx, "delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ToggleStatus flips active/inactive in one statement and returns the new status.
func (r *UserRepository) ToggleStatus(ctx context.Context, id int64) (models.ActiveStatus, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var status models.ActiveStatus
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE users
		SET status = CASE status WHEN 'active' THEN 'inactive' ELSE 'active' END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING status`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrUserNotFound
		}
		return "", wrapDBError(ctx, "toggle user", err)
	}
	return status, nil
}

// CountByRole reports how many users hold role, used to seed the first admin.
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, wrapDBError(ctx, "count users by role", err)
	}
	return n, nil
}
