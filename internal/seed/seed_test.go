package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/auth"
)

type fakeUsers struct {
	admins  int64
	created []*appModels.User
	err     error
}

func (f *fakeUsers) CountByRole(context.Context, appModels.RoleType) (int64, error) {
	return f.admins, f.err
}

func (f *fakeUsers) Create(_ context.Context, u *appModels.User) error {
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	f.admins++
	return nil
}

type fakeInstitutes struct {
	names map[string]bool
}

func (f *fakeInstitutes) ExistsByName(_ context.Context, name string) (bool, error) {
	return f.names[name], nil
}

func (f *fakeInstitutes) Create(_ context.Context, inst *appModels.Institute) error {
	f.names[inst.Name] = true
	return nil
}

var opts = Options{AdminEmail: "admin@institute.local", AdminPassword: "Secret123!", DefaultBranch: "Main Branch"}

func TestCreateDefaultData_FreshDatabase(t *testing.T) {
	users := &fakeUsers{}
	institutes := &fakeInstitutes{names: map[string]bool{}}

	require.NoError(t, CreateDefaultData(context.Background(), users, institutes, opts, zerolog.Nop()))

	require.Len(t, users.created, 1)
	admin := users.created[0]
	assert.Equal(t, appModels.RoleAdmin, admin.Role)
	assert.Equal(t, appModels.StatusActive, admin.Status)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "Secret123!"))
	assert.True(t, institutes.names["Main Branch"])

	// Running again changes nothing
	require.NoError(t, CreateDefaultData(context.Background(), users, institutes, opts, zerolog.Nop()))
	assert.Len(t, users.created, 1)
}

func TestCreateDefaultData_NoPasswordSkipsAdmin(t *testing.T) {
	users := &fakeUsers{}
	noPassword := opts
	noPassword.AdminPassword = ""

	require.NoError(t, CreateDefaultData(context.Background(), users, &fakeInstitutes{names: map[string]bool{}}, noPassword, zerolog.Nop()))
	assert.Empty(t, users.created)
}

func TestCreateDefaultData_CountFailure(t *testing.T) {
	boom := errors.New("connection refused")
	err := CreateDefaultData(context.Background(), &fakeUsers{err: boom}, &fakeInstitutes{names: map[string]bool{}}, opts, zerolog.Nop())
	assert.ErrorIs(t, err, boom)
}
