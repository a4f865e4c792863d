package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/filestorage"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/validation"
)

// InquiryInput is a public contact request with its optional CV
type InquiryInput struct {
	Role          string `form:"role" validate:"required,oneof=student teacher"`
	Name          string `form:"name" validate:"required,max=150"`
	Email         string `form:"email" validate:"required,email,max=255"`
	Phone         string `form:"phone" validate:"required"`
	Grade         string `form:"grade" validate:"required_if=Role student,max=50"`
	Qualification string `form:"qualification" validate:"required_if=Role teacher,max=150"`
	PreferredTime string `form:"preferred_time" validate:"max=50"`
	Message       string `form:"message" validate:"max=2000"`

	// CV is accepted from teacher inquiries only
	CV *multipart.FileHeader `form:"-" validate:"-"`
}

// InquiryService defines the inquiry operations
type InquiryService interface {
	SubmitInquiry(ctx context.Context, input InquiryInput) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, role models.InquiryRole, offset uint64, limit int) ([]*models.Inquiry, int64, error)
}

// inquiryServiceImpl implements the InquiryService interface
type inquiryServiceImpl struct {
	inquiries InquiryStore
	files     FileStore
	cvRule    filestorage.UploadRule
}

// NewInquiryService creates a new inquiry service instance
func NewInquiryService(inquiries InquiryStore, files FileStore, maxCVBytes int64) InquiryService {
	return &inquiryServiceImpl{
		inquiries: inquiries,
		files:     files,
		cvRule:    filestorage.CVRule(maxCVBytes),
	}
}

// SubmitInquiry validates and stores a contact request. Students must name a grade and
// teachers a qualification; only teachers may attach a CV.
func (s *inquiryServiceImpl) SubmitInquiry(ctx context.Context, input InquiryInput) (*models.Inquiry, error) {
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Grade = strings.TrimSpace(input.Grade)
	input.Qualification = strings.TrimSpace(input.Qualification)
	input.PreferredTime = strings.TrimSpace(input.PreferredTime)
	input.Message = strings.TrimSpace(input.Message)

	var extra []*apperrors.FieldError
	if input.Phone != "" && !validation.IsValidPhone(input.Phone) {
		extra = append(extra, &apperrors.FieldError{Field: "phone", Message: validation.MsgPhoneFormat})
	}
	if input.CV != nil {
		if models.InquiryRole(input.Role) != models.InquiryTeacher {
			extra = append(extra, &apperrors.FieldError{Field: "cv", Message: "Only teacher inquiries may attach a CV."})
		} else {
			extra = append(extra, s.cvRule.Check(input.CV))
		}
	}
	if err := validation.Merge(validation.Struct(input), extra...); err != nil {
		return nil, err
	}

	inq := &models.Inquiry{
		Role:          models.InquiryRole(input.Role),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Grade:         nullable(input.Grade),
		Qualification: nullable(input.Qualification),
		PreferredTime: nullable(input.PreferredTime),
		Message:       nullable(input.Message),
	}
	if inq.Role == models.InquiryStudent {
		inq.Qualification = nil
	} else {
		inq.Grade = nil
	}

	if input.CV != nil {
		stored, err := s.files.SaveFileWithPath(input.CV, filestorage.DirCVs)
		if err != nil {
			return nil, apperrors.NewPersistenceError("save cv", err, false)
		}
		inq.CVPath = &stored
	}

	if err := s.inquiries.Create(ctx, inq); err != nil {
		if inq.CVPath != nil {
			_ = s.files.DeleteFile(*inq.CVPath)
		}
		return nil, err
	}

	logger.Ctx(ctx).Info().Int64("inquiryID", inq.ID).Str("role", string(inq.Role)).Msg("Inquiry submitted")
	return inq, nil
}

// ListInquiries lists inquiries, newest first, optionally of one role
func (s *inquiryServiceImpl) ListInquiries(ctx context.Context, role models.InquiryRole, offset uint64, limit int) ([]*models.Inquiry, int64, error) {
	if role != "" && role != models.InquiryStudent && role != models.InquiryTeacher {
		return nil, 0, apperrors.NewValidationError(apperrors.FieldError{Field: "role", Message: "Role must be one of: student, teacher."})
	}
	return s.inquiries.List(ctx, role, offset, limit)
}
