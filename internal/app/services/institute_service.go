package services

import (
	"context"
	"strings"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/validation"
)

// InstituteInput carries the editable fields of a branch
type InstituteInput struct {
	Name            string `json:"name" validate:"required,max=150"`
	Address         string `json:"address" validate:"required,max=500"`
	Contact         string `json:"contact" validate:"required"`
	OfficeIncharge  string `json:"office_incharge" validate:"required,max=100"`
	InchargeContact string `json:"incharge_contact" validate:"required"`
}

// InstituteService defines the branch management operations
type InstituteService interface {
	CreateInstitute(ctx context.Context, input InstituteInput) (*models.Institute, error)
	GetInstitute(ctx context.Context, id int64) (*models.Institute, error)
	ListInstitutes(ctx context.Context, activeOnly bool) ([]*models.Institute, error)
	UpdateInstitute(ctx context.Context, id int64, input InstituteInput) (*models.Institute, error)
	DeleteInstitute(ctx context.Context, id int64) error
}

// instituteServiceImpl implements the InstituteService interface
type instituteServiceImpl struct {
	institutes InstituteStore
}

// NewInstituteService creates a new institute service instance
func NewInstituteService(institutes InstituteStore) InstituteService {
	return &instituteServiceImpl{institutes: institutes}
}

func validateInstitute(input *InstituteInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.Contact = strings.TrimSpace(input.Contact)
	input.OfficeIncharge = strings.TrimSpace(input.OfficeIncharge)
	input.InchargeContact = strings.TrimSpace(input.InchargeContact)

	var extra []*apperrors.FieldError
	if input.Contact != "" && !validation.IsValidPhone(input.Contact) {
		extra = append(extra, &apperrors.FieldError{Field: "contact", Message: validation.MsgPhoneFormat})
	}
	if input.InchargeContact != "" && !validation.IsValidPhone(input.InchargeContact) {
		extra = append(extra, &apperrors.FieldError{Field: "incharge_contact", Message: validation.MsgPhoneFormat})
	}
	return validation.Merge(validation.Struct(*input), extra...)
}

// CreateInstitute adds a new branch. Names are unique.
func (s *instituteServiceImpl) CreateInstitute(ctx context.Context, input InstituteInput) (*models.Institute, error) {
	if err := validateInstitute(&input); err != nil {
		return nil, err
	}

	inst := &models.Institute{
		Name:            input.Name,
		Address:         input.Address,
		Contact:         input.Contact,
		OfficeIncharge:  input.OfficeIncharge,
		InchargeContact: input.InchargeContact,
		Status:          models.StatusActive,
	}
	if err := s.institutes.Create(ctx, inst); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Int64("instituteID", inst.ID).Str("name", inst.Name).Msg("Institute created")
	return inst, nil
}

// GetInstitute retrieves a branch by ID
func (s *instituteServiceImpl) GetInstitute(ctx context.Context, id int64) (*models.Institute, error) {
	return s.institutes.GetByID(ctx, id)
}

// ListInstitutes lists branches, optionally only the active ones
func (s *instituteServiceImpl) ListInstitutes(ctx context.Context, activeOnly bool) ([]*models.Institute, error) {
	return s.institutes.List(ctx, activeOnly)
}

// UpdateInstitute changes a branch
func (s *instituteServiceImpl) UpdateInstitute(ctx context.Context, id int64, input InstituteInput) (*models.Institute, error) {
	inst, err := s.institutes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateInstitute(&input); err != nil {
		return nil, err
	}

	inst.Name = input.Name
	inst.Address = input.Address
	inst.Contact = input.Contact
	inst.OfficeIncharge = input.OfficeIncharge
	inst.InchargeContact = input.InchargeContact
	if err := s.institutes.Update(ctx, inst); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Int64("instituteID", id).Msg("Institute updated")
	return inst, nil
}

// DeleteInstitute removes a branch
func (s *instituteServiceImpl) DeleteInstitute(ctx context.Context, id int64) error {
	if err := s.institutes.Delete(ctx, id); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Int64("instituteID", id).Msg("Institute deleted")
	return nil
}
