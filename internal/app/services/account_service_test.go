package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/app/models/dto"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/auth"
)

func officeInput() UserInput {
	return UserInput{
		Username:      "office.north",
		Email:         "Office@Vemac.in",
		Name:          "Ritu Sharma",
		Phone:         "9876543210",
		Password:      "s3cret-pass",
		Role:          models.RoleOffice,
		InstituteName: "North Branch",
	}
}

func TestCreateUser_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	user, err := svc.CreateUser(context.Background(), officeInput())
	require.NoError(t, err)
	assert.Equal(t, "office@vemac.in", user.Email)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.True(t, auth.CheckPassword(store.rows[user.ID].PasswordHash, "s3cret-pass"))

	_, err = svc.CreateUser(context.Background(), officeInput())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	in := officeInput()
	in.Password = "short"
	in.Role = "root"
	in.Email = "not-an-email"
	_, err := svc.CreateUser(context.Background(), in)
	assert.ElementsMatch(t, []string{"email", "role", "password"}, fieldNames(t, err))
}

func TestUpdateUser_EmptyPasswordKeepsHash(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	user, err := svc.CreateUser(context.Background(), officeInput())
	require.NoError(t, err)
	before := store.rows[user.ID].PasswordHash

	in := officeInput()
	in.Password = ""
	in.Name = "Ritu S."
	updated, err := svc.UpdateUser(context.Background(), user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Ritu S.", updated.Name)
	assert.Empty(t, updated.PasswordHash)
	assert.Equal(t, before, store.rows[user.ID].PasswordHash)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), user.ID), apperrors.ErrResourceNotFound)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	users := NewUserService(store)
	_, err := users.CreateUser(context.Background(), officeInput())
	require.NoError(t, err)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "institute.test"})
	svc := NewAuthService(store, jwtSvc)

	res, err := svc.Login(context.Background(), &dto.LoginRequest{Login: "OFFICE.NORTH", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, 3600, res.Token.ExpiresIn)
	claims, err := jwtSvc.ValidateToken(res.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "office", claims.Role)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Login: "office@vemac.in", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Login: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = store.ToggleStatus(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Login: "office@vemac.in", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestInstituteService(t *testing.T) {
	store := newFakeInstituteStore()
	svc := NewInstituteService(store)

	in := InstituteInput{Name: "North Branch", Address: "Sector 5", Contact: "02012345678", OfficeIncharge: "Ritu", InchargeContact: "9876543210"}
	inst, err := svc.CreateInstitute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, inst.Status)

	_, err = svc.CreateInstitute(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	bad := in
	bad.Name = "South Branch"
	bad.InchargeContact = "12"
	_, err = svc.CreateInstitute(context.Background(), bad)
	assert.Equal(t, []string{"incharge_contact"}, fieldNames(t, err))

	in.Address = "Sector 9"
	updated, err := svc.UpdateInstitute(context.Background(), inst.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Sector 9", updated.Address)

	list, err := svc.ListInstitutes(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteInstitute(context.Background(), inst.ID))
	_, err = svc.GetInstitute(context.Background(), inst.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestSubmitInquiry(t *testing.T) {
	store := &fakeInquiryStore{}
	files := &fakeFileStore{}
	svc := NewInquiryService(store, files, 5<<20)

	_, err := svc.SubmitInquiry(context.Background(), InquiryInput{Role: "student", Name: "Asha", Email: "a@x.in", Phone: "9876543210"})
	assert.Equal(t, []string{"grade"}, fieldNames(t, err))

	inq, err := svc.SubmitInquiry(context.Background(), InquiryInput{Role: "Student", Name: "Asha", Email: "a@x.in", Phone: "9876543210", Grade: "7", Qualification: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStudent, inq.Role)
	assert.Nil(t, inq.Qualification)

	cv := uploadHeader(t, "cv", "resume.pdf", []byte("%PDF"))
	_, err = svc.SubmitInquiry(context.Background(), InquiryInput{Role: "student", Name: "Asha", Email: "a@x.in", Phone: "9876543210", Grade: "7", CV: cv})
	assert.Equal(t, []string{"cv"}, fieldNames(t, err))

	teacher, err := svc.SubmitInquiry(context.Background(), InquiryInput{Role: "teacher", Name: "Mr. Rao", Email: "rao@x.in", Phone: "9876543210", Qualification: "M.Sc", CV: cv})
	require.NoError(t, err)
	require.NotNil(t, teacher.CVPath)
	assert.Equal(t, "cvs/resume.pdf", *teacher.CVPath)

	list, total, err := svc.ListInquiries(context.Background(), models.InquiryTeacher, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestSubmitInquiry_RemovesCVWhenInsertFails(t *testing.T) {
	store := &fakeInquiryStore{createErr: apperrors.NewPersistenceError("create inquiry", assert.AnError, false)}
	files := &fakeFileStore{}
	svc := NewInquiryService(store, files, 5<<20)

	cv := uploadHeader(t, "cv", "resume.docx", []byte("doc"))
	_, err := svc.SubmitInquiry(context.Background(), InquiryInput{Role: "teacher", Name: "Mr. Rao", Email: "rao@x.in", Phone: "9876543210", Qualification: "M.Sc", CV: cv})
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Equal(t, files.saved, files.deleted)
}
