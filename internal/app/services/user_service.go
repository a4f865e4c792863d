package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/auth"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/validation"
)

// UserInput carries the editable fields of an account
type UserInput struct {
	Username      string          `json:"username" validate:"required,min=3,max=50"`
	Email         string          `json:"email" validate:"required,email,max=255"`
	Name          string          `json:"name" validate:"required,max=100"`
	Phone         string          `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Password      string          `json:"password"`
	Role          models.RoleType `json:"role" validate:"required,oneof=admin office staff student teacher"`
	InstituteName string          `json:"institute_name" validate:"max=100"`
}

// UserService defines the account management operations
type UserService interface {
	CreateUser(ctx context.Context, input UserInput) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
	UpdateUser(ctx context.Context, id int64, input UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users UserStore
}

// NewUserService creates a new user service instance
func NewUserService(users UserStore) UserService {
	return &userServiceImpl{users: users}
}

// validateUser checks the input; the password is mandatory only when creating
func validateUser(input *UserInput, creating bool) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.InstituteName = strings.TrimSpace(input.InstituteName)

	var extra []*apperrors.FieldError
	if creating || input.Password != "" {
		var ve *apperrors.ValidationError
		if err := validation.ValidatePassword(input.Password); errors.As(err, &ve) {
			for i := range ve.Errors {
				extra = append(extra, &ve.Errors[i])
			}
		}
	}
	return validation.Merge(validation.Struct(*input), extra...)
}

// CreateUser validates the input, hashes the password and stores the account
func (s *userServiceImpl) CreateUser(ctx context.Context, input UserInput) (*models.User, error) {
	if err := validateUser(&input, true); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      input.Username,
		Email:         input.Email,
		Name:          input.Name,
		Phone:         input.Phone,
		PasswordHash:  hash,
		Role:          input.Role,
		InstituteName: input.InstituteName,
		Status:        models.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers lists users matching filter
func (s *userServiceImpl) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, apperrors.NewValidationError(apperrors.FieldError{Field: "role", Message: "Unknown role."})
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.users.List(ctx, filter)
}

// UpdateUser changes an account. An empty password keeps the current one.
func (s *userServiceImpl) UpdateUser(ctx context.Context, id int64, input UserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateUser(&input, false); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.Name = input.Name
	user.Phone = input.Phone
	user.Role = input.Role
	user.InstituteName = input.InstituteName
	user.PasswordHash = ""
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	logger.Ctx(ctx).Info().Int64("userID", id).Msg("User updated")
	return user, nil
}

// DeleteUser removes an account
func (s *userServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Int64("userID", id).Msg("User deleted")
	return nil
}
