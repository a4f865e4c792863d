package services

import (
	"context"
	"errors"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/metrics"
)

// MsgStatusUpdated is returned on every successful toggle
const MsgStatusUpdated = "Status updated successfully"

// StatusService flips the active state of students, users and institutes
type StatusService interface {
	ToggleStatus(ctx context.Context, kind models.EntityKind, id int64) (*models.ToggleResult, error)
}

// statusServiceImpl implements the StatusService interface
type statusServiceImpl struct {
	students   StudentStore
	users      UserStore
	institutes InstituteStore
}

// NewStatusService creates a new status service instance
func NewStatusService(students StudentStore, users UserStore, institutes InstituteStore) StatusService {
	return &statusServiceImpl{
		students:   students,
		users:      users,
		institutes: institutes,
	}
}

// ToggleStatus flips the status of one entity in a single statement. A missing entity yields
// its not-found error; a failed write yields ErrToggleFailed and leaves the stored state as it was.
func (s *statusServiceImpl) ToggleStatus(ctx context.Context, kind models.EntityKind, id int64) (*models.ToggleResult, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "id", Message: "ID must be a positive number."})
	}

	var (
		status models.ActiveStatus
		err    error
	)
	switch kind {
	case models.EntityStudent:
		var active bool
		active, err = s.students.ToggleActive(ctx, id)
		status = models.ActiveStatusOf(active)
	case models.EntityUser:
		status, err = s.users.ToggleStatus(ctx, id)
	case models.EntityInstitute:
		status, err = s.institutes.ToggleStatus(ctx, id)
	default:
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "kind",
			Message: "Kind must be one of: student, user, institute.",
		})
	}

	if err != nil {
		metrics.StatusToggles.WithLabelValues(string(kind), "error").Inc()
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		var pe *apperrors.PersistenceError
		if errors.As(err, &pe) {
			return nil, apperrors.NewPersistenceError("toggle status", errors.Join(apperrors.ErrToggleFailed, pe.Err), pe.Retryable)
		}
		return nil, apperrors.NewPersistenceError("toggle status", errors.Join(apperrors.ErrToggleFailed, err), false)
	}

	metrics.StatusToggles.WithLabelValues(string(kind), "ok").Inc()
	logger.Ctx(ctx).Info().Str("kind", string(kind)).Int64("id", id).Str("status", string(status)).Msg("Status toggled")
	return &models.ToggleResult{
		Kind:      kind,
		ID:        id,
		NewStatus: status,
		IsActive:  status == models.StatusActive,
		Message:   MsgStatusUpdated,
	}, nil
}
