package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/admission"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/filestorage"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/metrics"
	"github.com/vemac/institute/internal/pkg/validation"
)

// admissionRequired lists the fields a public admission must carry
var admissionRequired = []string{
	"first_name", "last_name", "email", "phone", "dob", "gender", "address", "course", "institute_name",
}

// AdmissionSubmission is one admission form with its optional photo
type AdmissionSubmission struct {
	Fields map[string]string
	Photo  *multipart.FileHeader
}

// AdmissionService defines the admission operations
type AdmissionService interface {
	SubmitAdmission(ctx context.Context, sub AdmissionSubmission) (*models.Student, error)
	GenerateAdmissionCode(ctx context.Context, year int) (string, error)
}

// AdmissionConfig carries the tunables of the admission service
type AdmissionConfig struct {
	Policy        admission.Policy
	Retry         db.RetryPolicy
	MaxPhotoBytes int64
}

// admissionServiceImpl implements the AdmissionService interface
type admissionServiceImpl struct {
	students  StudentStore
	codes     AdmissionCodeStore
	files     FileStore
	validator *validation.Validator
	policy    admission.Policy
	retry     db.RetryPolicy
	photoRule filestorage.UploadRule
}

// NewAdmissionService creates a new admission service instance
func NewAdmissionService(students StudentStore, codes AdmissionCodeStore, files FileStore, validator *validation.Validator, cfg AdmissionConfig) AdmissionService {
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &admissionServiceImpl{
		students:  students,
		codes:     codes,
		files:     files,
		validator: validator,
		policy:    cfg.Policy,
		retry:     cfg.Retry,
		photoRule: filestorage.PhotoRule(cfg.MaxPhotoBytes),
	}
}

// SubmitAdmission validates the form, stores the photo and creates the student together with
// its admission code. Nothing is inserted when validation fails.
func (s *admissionServiceImpl) SubmitAdmission(ctx context.Context, sub AdmissionSubmission) (*models.Student, error) {
	fields := make(map[string]string, len(sub.Fields)+1)
	for k, v := range sub.Fields {
		fields[k] = v
	}
	now := s.validator.CurrentTime()
	if strings.TrimSpace(fields["admission_date"]) == "" {
		fields["admission_date"] = now.Format(validation.DateLayout)
	}
	if g := strings.TrimSpace(fields["gender"]); g != "" {
		fields["gender"] = strings.ToLower(g)
	}

	rec, err := s.validator.Validate(fields, admissionRequired)
	err = validation.Merge(err,
		validation.OneOf("gender", strings.TrimSpace(fields["gender"]),
			string(models.GenderMale), string(models.GenderFemale), string(models.GenderOther)),
		termsAccepted(fields["terms"]),
		s.photoRule.Check(sub.Photo),
	)
	if err != nil {
		metrics.Admissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	student := studentFromRecord(rec)
	student.Status = models.AdmissionPending
	student.IsActive = true

	if sub.Photo != nil {
		stored, err := s.files.SaveFileWithPath(sub.Photo, filestorage.DirProfilePhotos)
		if err != nil {
			metrics.Admissions.WithLabelValues("error").Inc()
			return nil, apperrors.NewPersistenceError("save photo", err, false)
		}
		student.PhotoPath = &stored
	}

	year := now.Year()
	err = db.RetryOnConflict(ctx, s.retry, "create student", func(ctx context.Context) error {
		return s.students.CreateWithAdmissionCode(ctx, student, s.policy, year)
	})
	if err != nil {
		if student.PhotoPath != nil {
			if delErr := s.files.DeleteFile(*student.PhotoPath); delErr != nil {
				logger.Ctx(ctx).Warn().Err(delErr).Str("path", *student.PhotoPath).Msg("Failed to remove photo of rejected admission")
			}
		}
		metrics.Admissions.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.Admissions.WithLabelValues("created").Inc()
	metrics.AdmissionCodes.Inc()
	logger.Ctx(ctx).Info().Int64("studentID", student.ID).Str("admissionCode", student.AdmissionCode).Msg("Admission submitted")
	return student, nil
}

// GenerateAdmissionCode reserves the next admission code of year
func (s *admissionServiceImpl) GenerateAdmissionCode(ctx context.Context, year int) (string, error) {
	if year < 1 || year > 9999 {
		return "", apperrors.NewValidationError(apperrors.FieldError{
			Field:   "year",
			Message: "Year must be between 1 and 9999.",
		})
	}

	var code string
	err := db.RetryOnConflict(ctx, s.retry, "reserve admission code", func(ctx context.Context) error {
		var err error
		code, err = s.codes.Reserve(ctx, s.policy, year)
		return err
	})
	if err != nil {
		return "", err
	}

	metrics.AdmissionCodes.Inc()
	logger.Ctx(ctx).Info().Int("year", year).Str("admissionCode", code).Msg("Admission code reserved")
	return code, nil
}

func termsAccepted(v string) *apperrors.FieldError {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "accepted":
		return nil
	}
	return &apperrors.FieldError{Field: "terms", Message: "You must accept the terms and conditions."}
}

// studentFromRecord maps a validated record onto a Student. The address parts are
// combined into one line.
func studentFromRecord(rec validation.Record) *models.Student {
	s := &models.Student{
		InstituteName:       rec.Get("institute_name"),
		FirstName:           rec.Get("first_name"),
		LastName:            rec.Get("last_name"),
		Gender:              models.Gender(rec.Get("gender")),
		Email:               nullable(rec.Get("email")),
		Phone:               rec.Get("phone"),
		ParentName:          rec.Get("parent_name"),
		ParentPhone:         rec.Get("parent_phone"),
		Address:             joinAddress(rec),
		Course:              rec.Get("course"),
		SchoolType:          rec.Get("school_type"),
		School:              rec.Get("school"),
		ReferredBy:          rec.Get("referred_by"),
		AdmissionAcceptedBy: rec.Get("admission_accepted_by"),
	}
	s.DOB, _ = rec.Date("dob")
	s.AdmissionDate, _ = rec.Date("admission_date")
	return s
}

func joinAddress(rec validation.Record) string {
	var parts []string
	for _, f := range []string{"address", "city", "state", "zip", "country"} {
		if v := rec.Get(f); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func currentYear(now func() time.Time) int {
	if now == nil {
		return time.Now().Year()
	}
	return now().Year()
}
