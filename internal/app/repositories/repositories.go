package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/dberrors"
	"github.com/vemac/institute/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository             *UserRepository
	InstituteRepository        *InstituteRepository
	StudentRepository          *StudentRepository
	AdmissionCounterRepository *AdmissionCounterRepository
	FeeRepository              *FeeRepository
	InquiryRepository          *InquiryRepository
	DashboardRepository        *DashboardRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	counters := NewAdmissionCounterRepository(database)
	return &Repositories{
		UserRepository:             NewUserRepository(database),
		InstituteRepository:        NewInstituteRepository(database),
		StudentRepository:          NewStudentRepository(database, counters),
		AdmissionCounterRepository: counters,
		FeeRepository:              NewFeeRepository(database),
		InquiryRepository:          NewInquiryRepository(database),
		DashboardRepository:        NewDashboardRepository(database),
	}
}

// statementBuilder returns a squirrel builder using $n placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// wrapDBError logs a failed database call and turns it into a PersistenceError.
// Timeouts and write conflicts are marked retryable. A value too long for its column
// is the caller's fault and is reported as a validation failure.
func wrapDBError(ctx context.Context, op string, err error) error {
	if dberrors.IsValueTooLong(err) {
		logger.Ctx(ctx).Debug().Err(err).Str("op", op).Msg("Value too long for column")
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrValidationFailed, err)
	}
	retryable := dberrors.IsTimeout(err) || dberrors.IsRetryableConflict(err)
	if retryable {
		logger.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("Database operation failed, retryable")
	} else {
		logger.Ctx(ctx).Error().Err(err).Str("op", op).Msg("Database operation failed")
	}
	return apperrors.NewPersistenceError(op, err, retryable)
}

// txError passes through errors that already carry a classification and wraps the rest,
// such as failures to begin or commit, as persistence errors.
func txError(ctx context.Context, op string, err error) error {
	var pe *apperrors.PersistenceError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &pe),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrValidationFailed):
		return err
	}
	return wrapDBError(ctx, op, err)
}

// containsPattern builds an ILIKE pattern matching term anywhere, with LIKE wildcards escaped.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

func nullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
