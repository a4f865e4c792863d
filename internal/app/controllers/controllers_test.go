package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/vemac/institute/internal/app/auth"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// asCaller installs an identity the way JWTAuth does
func asCaller(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(appauth.WithIdentity(c.Request.Context(), appauth.Identity{
			UserID: 7,
			Name:   "Asha Verma",
			Role:   role,
		}))
		c.Next()
	}
}

type fakeAdmissionService struct {
	fields map[string]string
	photo  *multipart.FileHeader
	years  []int
	err    error
}

func (f *fakeAdmissionService) SubmitAdmission(_ context.Context, sub services.AdmissionSubmission) (*models.Student, error) {
	f.fields, f.photo = sub.Fields, sub.Photo
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: 1, AdmissionCode: "INST-2026-0001", FirstName: sub.Fields["first_name"]}, nil
}

func (f *fakeAdmissionService) GenerateAdmissionCode(_ context.Context, year int) (string, error) {
	f.years = append(f.years, year)
	if f.err != nil {
		return "", f.err
	}
	return "INST-2026-0007", nil
}

func TestSubmitAdmission_Multipart(t *testing.T) {
	svc := &fakeAdmissionService{}
	r := gin.New()
	r.POST("/admissions", NewAdmissionController(svc).SubmitAdmission)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("first_name", "Asha"))
	require.NoError(t, mw.WriteField("course", "BCA"))
	part, err := mw.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admissions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Equal(t, "Admission submitted successfully. Your admission code is INST-2026-0001.", env.Message)
	assert.Equal(t, "Asha", svc.fields["first_name"])
	assert.Equal(t, "BCA", svc.fields["course"])
	require.NotNil(t, svc.photo)
	assert.Equal(t, "me.png", svc.photo.Filename)
}

func TestSubmitAdmission_ValidationFailure(t *testing.T) {
	svc := &fakeAdmissionService{err: apperrors.NewValidationError(apperrors.FieldError{Field: "email", Message: "Email is required."})}
	r := gin.New()
	r.POST("/admissions", NewAdmissionController(svc).SubmitAdmission)

	req := httptest.NewRequest(http.MethodPost, "/admissions", strings.NewReader("first_name=Asha"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "VAL_001", env.Error.Code)
	assert.Equal(t, "email", env.Error.Field)
	assert.Nil(t, svc.photo)
}

func TestGenerateAdmissionCode_DefaultsToCurrentYear(t *testing.T) {
	svc := &fakeAdmissionService{}
	ctrl := NewAdmissionController(svc)
	ctrl.now = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }
	r := gin.New()
	r.POST("/admission-codes", ctrl.GenerateAdmissionCode)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admission-codes", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/admission-codes", strings.NewReader(`{"year":2025}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, []int{2026, 2025}, svc.years)
}

func TestGenerateAdmissionCode_Exhausted(t *testing.T) {
	r := gin.New()
	r.POST("/admission-codes", NewAdmissionController(&fakeAdmissionService{err: apperrors.ErrAdmissionCodesExhausted}).GenerateAdmissionCode)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admission-codes", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_005", decode(t, w).Error.Code)
}

type fakeFeeService struct {
	services.FeeService
	input   models.FeeInput
	outcome models.FeeOutcome
	student string
}

func (f *fakeFeeService) SaveFee(_ context.Context, input models.FeeInput) (*models.SaveFeeResult, error) {
	f.input = input
	msg := "Fee updated successfully."
	if f.outcome == models.FeeInserted {
		msg = "Fee added successfully."
	}
	return &models.SaveFeeResult{Outcome: f.outcome, Message: msg, Fee: &models.Fee{FeeID: input.FeeID}}, nil
}

func (f *fakeFeeService) StudentFees(_ context.Context, studentName string, _ uint64, _ int) ([]*models.Fee, int64, error) {
	f.student = studentName
	return []*models.Fee{{FeeID: "F1", StudentName: studentName}}, 1, nil
}

func TestSaveFee_StatusFollowsOutcome(t *testing.T) {
	for _, tc := range []struct {
		outcome models.FeeOutcome
		status  int
		message string
	}{
		{models.FeeInserted, http.StatusCreated, "Fee added successfully."},
		{models.FeeUpdated, http.StatusOK, "Fee updated successfully."},
	} {
		svc := &fakeFeeService{outcome: tc.outcome}
		r := gin.New()
		r.POST("/fees", NewFeeController(svc).SaveFee)

		req := httptest.NewRequest(http.MethodPost, "/fees", strings.NewReader(`{"fee_id":"F100","amount":"1500.50","payment_method":"Cash"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.message, decode(t, w).Message)
		assert.Equal(t, "F100", svc.input.FeeID)
		assert.Equal(t, models.AmountText("1500.50"), svc.input.Amount)
	}
}

func TestSaveFee_AcceptsNumericAmount(t *testing.T) {
	for body, want := range map[string]models.AmountText{
		`{"fee_id":"F100","amount":500,"payment_method":"Cash"}`:     "500",
		`{"fee_id":"F100","amount":750.25,"payment_method":"Cash"}`:  "750.25",
		`{"fee_id":"F100","amount":"750.25","payment_method":"Cash"}`: "750.25",
	} {
		svc := &fakeFeeService{outcome: models.FeeInserted}
		r := gin.New()
		r.POST("/fees", NewFeeController(svc).SaveFee)

		req := httptest.NewRequest(http.MethodPost, "/fees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, want, svc.input.Amount)
	}
}

func TestSaveFee_RejectsNonNumericAmountType(t *testing.T) {
	svc := &fakeFeeService{outcome: models.FeeInserted}
	r := gin.New()
	r.POST("/fees", NewFeeController(svc).SaveFee)

	req := httptest.NewRequest(http.MethodPost, "/fees", strings.NewReader(`{"fee_id":"F100","amount":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_002", decode(t, w).Error.Code)
}

func TestMyFees_UsesCallerName(t *testing.T) {
	svc := &fakeFeeService{}
	r := gin.New()
	r.GET("/me/fees", asCaller(models.RoleStudent), NewFeeController(svc).MyFees)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/fees", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Asha Verma", svc.student)
}

type fakeStatusService struct {
	calls int
}

func (f *fakeStatusService) ToggleStatus(_ context.Context, kind models.EntityKind, id int64) (*models.ToggleResult, error) {
	f.calls++
	if id == 404 {
		return nil, apperrors.ErrStudentNotFound
	}
	return &models.ToggleResult{Kind: kind, ID: id, NewStatus: models.StatusInactive, Message: "Status updated successfully"}, nil
}

func TestToggleStatus(t *testing.T) {
	cases := []struct {
		name   string
		role   models.RoleType
		path   string
		status int
		calls  int
	}{
		{"office toggles student", models.RoleOffice, "/status/student/3", http.StatusOK, 1},
		{"office cannot toggle user", models.RoleOffice, "/status/user/3", http.StatusForbidden, 0},
		{"admin toggles institute", models.RoleAdmin, "/status/institute/3", http.StatusOK, 1},
		{"unknown kind", models.RoleAdmin, "/status/course/3", http.StatusBadRequest, 0},
		{"bad id", models.RoleAdmin, "/status/student/abc", http.StatusBadRequest, 0},
		{"missing", models.RoleAdmin, "/status/student/404", http.StatusNotFound, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeStatusService{}
			r := gin.New()
			r.PATCH("/status/:kind/:id", asCaller(tc.role), NewStatusController(svc).ToggleStatus)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, tc.path, nil))
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.calls, svc.calls)
		})
	}
}

type fakeUserService struct {
	services.UserService
	deleted []int64
}

func (f *fakeUserService) DeleteUser(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestDeleteUser_RefusesSelf(t *testing.T) {
	svc := &fakeUserService{}
	r := gin.New()
	r.DELETE("/users/:id", asCaller(models.RoleAdmin), NewUserController(svc).DeleteUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/7", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/8", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{8}, svc.deleted)
}
