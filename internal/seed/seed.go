package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/auth"
)

// Options selects the default data to create
type Options struct {
	AdminEmail    string
	AdminPassword string
	DefaultBranch string
}

// UserStore is the part of the user repository the seeder needs
type UserStore interface {
	CountByRole(ctx context.Context, role appModels.RoleType) (int64, error)
	Create(ctx context.Context, user *appModels.User) error
}

// InstituteStore is the part of the institute repository the seeder needs
type InstituteStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, inst *appModels.Institute) error
}

// CreateDefaultData creates the first administrator and the default branch if they don't exist.
// Failures are collected so one missing piece does not block the other.
func CreateDefaultData(ctx context.Context, users UserStore, institutes InstituteStore, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (administrator/branch)...")
	var finalErr error

	// --- Default branch --- //
	if opts.DefaultBranch != "" {
		exists, err := institutes.ExistsByName(ctx, opts.DefaultBranch)
		switch {
		case err != nil:
			lgr.Error().Err(err).Msg("Error checking default branch")
			finalErr = errors.Join(finalErr, err)
		case !exists:
			err = institutes.Create(ctx, &appModels.Institute{
				Name:   opts.DefaultBranch,
				Status: appModels.StatusActive,
			})
			if err != nil && !errors.Is(err, apperrors.ErrConflict) {
				lgr.Error().Err(err).Msg("Error creating default branch")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("branch", opts.DefaultBranch).Msg("Default branch created")
			}
		}
	}

	// --- Default administrator --- //
	admins, err := users.CountByRole(ctx, appModels.RoleAdmin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting administrators")
		return errors.Join(finalErr, err)
	}
	if admins > 0 {
		lgr.Info().Msg("Administrator already exists, skipping creation")
		return finalErr
	}
	if opts.AdminPassword == "" {
		lgr.Warn().Msg("No administrator exists and SEED_ADMIN_PASSWORD is not set; skipping creation")
		return finalErr
	}

	hashedPassword, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}
	admin := &appModels.User{
		Username:      "admin",
		Email:         opts.AdminEmail,
		Name:          "System Administrator",
		PasswordHash:  hashedPassword,
		Role:          appModels.RoleAdmin,
		InstituteName: opts.DefaultBranch,
		Status:        appModels.StatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Default admin user created successfully")

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
