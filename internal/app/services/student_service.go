package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/filestorage"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/slip"
	"github.com/vemac/institute/internal/pkg/validation"
)

// studentEditRequired lists the fields an office edit must carry
var studentEditRequired = []string{
	"first_name", "last_name", "email", "phone", "dob", "gender", "admission_accepted_by", "institute_name", "admission_date",
}

// StudentService defines the student record operations
type StudentService interface {
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, fields map[string]string, photo *multipart.FileHeader) (*models.Student, error)
	ApproveStudent(ctx context.Context, id int64) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	AdmissionSlip(ctx context.Context, id int64) ([]byte, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students  StudentStore
	files     FileStore
	validator *validation.Validator
	photoRule filestorage.UploadRule
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, files FileStore, validator *validation.Validator, maxPhotoBytes int64) StudentService {
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &studentServiceImpl{
		students:  students,
		files:     files,
		validator: validator,
		photoRule: filestorage.PhotoRule(maxPhotoBytes),
	}
}

// ListStudents lists students matching filter
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && filter.Status != models.AdmissionApproved && filter.Status != models.AdmissionPending {
		return nil, 0, apperrors.NewValidationError(apperrors.FieldError{Field: "status", Message: "Status must be one of: Approved, Pending."})
	}
	return s.students.List(ctx, filter)
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// UpdateStudent revalidates the record and saves it. A new photo replaces the old one.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, fields map[string]string, photo *multipart.FileHeader) (*models.Student, error) {
	existing, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized := make(map[string]string, len(fields))
	for k, v := range fields {
		normalized[k] = v
	}
	normalized["gender"] = strings.ToLower(strings.TrimSpace(normalized["gender"]))

	rec, err := s.validator.Validate(normalized, studentEditRequired)
	err = validation.Merge(err,
		validation.OneOf("gender", normalized["gender"],
			string(models.GenderMale), string(models.GenderFemale), string(models.GenderOther)),
		s.photoRule.Check(photo),
	)
	if err != nil {
		return nil, err
	}

	updated := studentFromRecord(rec)
	updated.ID = existing.ID
	updated.AdmissionCode = existing.AdmissionCode
	updated.Status = existing.Status
	updated.IsActive = existing.IsActive
	updated.CreatedAt = existing.CreatedAt

	var oldPhoto *string
	if photo != nil {
		stored, err := s.files.SaveFileWithPath(photo, filestorage.DirProfilePhotos)
		if err != nil {
			return nil, apperrors.NewPersistenceError("save photo", err, false)
		}
		updated.PhotoPath = &stored
		oldPhoto = existing.PhotoPath
	}

	if err := s.students.Update(ctx, updated); err != nil {
		if updated.PhotoPath != nil {
			_ = s.files.DeleteFile(*updated.PhotoPath)
		}
		return nil, err
	}
	if updated.PhotoPath == nil {
		updated.PhotoPath = existing.PhotoPath
	}
	if oldPhoto != nil {
		if err := s.files.DeleteFile(*oldPhoto); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("studentID", id).Msg("Failed to remove replaced photo")
		}
	}

	logger.Ctx(ctx).Info().Int64("studentID", id).Msg("Student updated")
	return updated, nil
}

// ApproveStudent marks the admission as approved
func (s *studentServiceImpl) ApproveStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.SetAdmissionStatus(ctx, id, models.AdmissionApproved)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Int64("studentID", id).Msg("Admission approved")
	return student, nil
}

// DeleteStudent removes the application and its photo
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	photo, err := s.students.Delete(ctx, id)
	if err != nil {
		return err
	}
	if photo != nil && *photo != "" {
		if err := s.files.DeleteFile(*photo); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("studentID", id).Msg("Failed to remove photo of deleted student")
		}
	}
	logger.Ctx(ctx).Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// AdmissionSlip renders the QR code of a student's admission
func (s *studentServiceImpl) AdmissionSlip(ctx context.Context, id int64) ([]byte, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return slip.QRCode(student.AdmissionCode, student.FullName(), student.InstituteName, slip.DefaultSize)
}
