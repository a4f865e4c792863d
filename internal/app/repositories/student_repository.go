package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/admission"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

var studentColumns = []string{
	"id", "admission_code", "institute_name", "first_name", "last_name", "dob", "gender",
	"email", "phone", "parent_name", "parent_phone", "address", "course", "school_type",
	"school", "referred_by", "admission_accepted_by", "admission_date", "status",
	"is_active", "photo_path", "created_at", "updated_at",
}

// StudentRepository handles student_data operations
type StudentRepository struct {
	db       *db.PostgresDB
	counters *AdmissionCounterRepository
	sb       squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.PostgresDB, counters *AdmissionCounterRepository) *StudentRepository {
	return &StudentRepository{
		db:       database,
		counters: counters,
		sb:       statementBuilder(),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.AdmissionCode, &s.InstituteName, &s.FirstName, &s.LastName, &s.DOB, &s.Gender,
		&s.Email, &s.Phone, &s.ParentName, &s.ParentPhone, &s.Address, &s.Course, &s.SchoolType,
		&s.School, &s.ReferredBy, &s.AdmissionAcceptedBy, &s.AdmissionDate, &s.Status,
		&s.IsActive, &s.PhotoPath, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// CreateWithAdmissionCode allocates the next admission code for year and inserts the student
// in the same transaction. Nothing is written when either step fails.
func (r *StudentRepository) CreateWithAdmissionCode(ctx context.Context, student *models.Student, policy admission.Policy, year int) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		seq, err := r.counters.NextSequence(ctx, tx, policy.Prefix, year)
		if err != nil {
			return err
		}
		code, err := policy.Code(year, seq)
		if err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("student_data").
			Columns(
				"admission_code", "institute_name", "first_name", "last_name", "dob", "gender",
				"email", "phone", "parent_name", "parent_phone", "address", "course", "school_type",
				"school", "referred_by", "admission_accepted_by", "admission_date", "status",
				"is_active", "photo_path",
			).
			Values(
				code, student.InstituteName, student.FirstName, student.LastName, student.DOB, student.Gender,
				student.Email, student.Phone, student.ParentName, student.ParentPhone, student.Address, student.Course, student.SchoolType,
				student.School, student.ReferredBy, student.AdmissionAcceptedBy, student.AdmissionDate, student.Status,
				student.IsActive, student.PhotoPath,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
			return wrapDBError(ctx, "insert student", err)
		}
		student.AdmissionCode = code
		return nil
	})
	return txError(ctx, "create student", err)
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Select(studentColumns...).
		From("student_data").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, wrapDBError(ctx, "get student", err)
	}
	return student, nil
}

func (r *StudentRepository) applyFilter(q squirrel.SelectBuilder, filter models.StudentFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"first_name": p},
			squirrel.ILike{"last_name": p},
			squirrel.ILike{"email": p},
			squirrel.ILike{"admission_code": p},
			squirrel.Expr("(first_name || ' ' || last_name) ILIKE ?", p),
		})
	}
	if filter.InstituteName != "" {
		q = q.Where(squirrel.Eq{"institute_name": filter.InstituteName})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	return q
}

// List returns one page of students, newest first, and the total number matching the filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	countSQL, countArgs, err := r.applyFilter(r.sb.Select("COUNT(*)").From("student_data"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapDBError(ctx, "count students", err)
	}

	q := r.applyFilter(r.sb.Select(studentColumns...).From("student_data"), filter).
		OrderBy("created_at DESC", "id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, wrapDBError(ctx, "list students", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, wrapDBError(ctx, "scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError(ctx, "iterate students", err)
	}
	return students, total, nil
}

// Update replaces the editable fields of a student. The admission code never changes.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	set := map[string]interface{}{
		"institute_name":        student.InstituteName,
		"first_name":            student.FirstName,
		"last_name":             student.LastName,
		"dob":                   student.DOB,
		"gender":                student.Gender,
		"email":                 student.Email,
		"phone":                 student.Phone,
		"parent_name":           student.ParentName,
		"parent_phone":          student.ParentPhone,
		"address":               student.Address,
		"course":                student.Course,
		"school_type":           student.SchoolType,
		"school":                student.School,
		"referred_by":           student.ReferredBy,
		"admission_accepted_by": student.AdmissionAcceptedBy,
		"admission_date":        student.AdmissionDate,
		"updated_at":            time.Now(),
	}
	if student.PhotoPath != nil {
		set["photo_path"] = student.PhotoPath
	}

	sql, args, err := r.sb.Update("student_data").
		SetMap(set).
		Where(squirrel.Eq{"id": student.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&student.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return wrapDBError(ctx, "update student", err)
	}
	return nil
}

// SetAdmissionStatus sets the review status and returns the updated student.
func (r *StudentRepository) SetAdmissionStatus(ctx context.Context, id int64, status models.AdmissionStatus) (*models.Student, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	sql, args, err := r.sb.Update("student_data").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student status query: %w", err)
	}

	student, err := scanStudent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, wrapDBError(ctx, "set admission status", err)
	}
	return student, nil
}

// ToggleActive flips is_active in one statement and returns the new value.
func (r *StudentRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var active bool
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE student_data SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`,
		id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrStudentNotFound
		}
		return false, wrapDBError(ctx, "toggle student", err)
	}
	return active, nil
}

// Delete removes the application and returns the stored photo path, if any.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (*string, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var photo *string
	err := r.db.Pool.QueryRow(ctx, `DELETE FROM student_data WHERE id = $1 RETURNING photo_path`, id).Scan(&photo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, wrapDBError(ctx, "delete student", err)
	}
	return photo, nil
}
