package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

func fixedValidator() *Validator {
	v := NewValidator()
	v.Now = func() time.Time { return time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC) }
	return v
}

var admissionRequired = []string{"first_name", "last_name", "phone", "dob", "gender", "course"}

func validAdmission() map[string]string {
	return map[string]string{
		"first_name":     "  Asha ",
		"last_name":      "Verma",
		"phone":          "9876543210",
		"parent_phone":   "919876543210",
		"email":          "Asha.Verma@Example.COM",
		"dob":            "2012-04-01",
		"admission_date": "2026-10-16",
		"gender":         "female",
		"course":         "Vedic Maths Level 1",
	}
}

func validationErrors(t *testing.T, err error) []apperrors.FieldError {
	t.Helper()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Errors
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	rec, err := fixedValidator().Validate(validAdmission(), admissionRequired)
	require.NoError(t, err)

	assert.Equal(t, "Asha", rec.Get("first_name"))
	assert.Equal(t, "asha.verma@example.com", rec.Get("email"))

	dob, ok := rec.Date("dob")
	require.True(t, ok)
	assert.Equal(t, 2012, dob.Year())
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	_, err := fixedValidator().Validate(map[string]string{"first_name": "   "}, admissionRequired)

	errs := validationErrors(t, err)
	require.Len(t, errs, len(admissionRequired))
	assert.Equal(t, "First name is required.", errs[0].Message)
	assert.Equal(t, "Last name is required.", errs[1].Message)
	assert.Equal(t, "Phone is required.", errs[2].Message)
	assert.Equal(t, "Date of birth is required.", errs[3].Message)
	assert.Equal(t, "dob", errs[3].Field)
}

func TestValidateAccumulatesFormatErrors(t *testing.T) {
	in := validAdmission()
	in["phone"] = "98765-4321"
	in["parent_phone"] = "1234567890123456"
	in["email"] = "not-an-email"
	in["admission_date"] = "16/10/2026"

	_, err := fixedValidator().Validate(in, admissionRequired)

	errs := validationErrors(t, err)
	require.Len(t, errs, 4)
	assert.Equal(t, apperrors.FieldError{Field: "phone", Message: MsgPhoneFormat}, errs[0])
	assert.Equal(t, apperrors.FieldError{Field: "parent_phone", Message: MsgPhoneFormat}, errs[1])
	assert.Equal(t, apperrors.FieldError{Field: "email", Message: MsgEmailFormat}, errs[2])
	assert.Equal(t, "Admission date must be a valid date (YYYY-MM-DD).", errs[3].Message)
}

func TestValidateRejectsFutureDates(t *testing.T) {
	in := validAdmission()
	in["dob"] = "2030-01-01"
	in["admission_date"] = "2026-10-17"

	_, err := fixedValidator().Validate(in, admissionRequired)

	errs := validationErrors(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "Date of birth cannot be in the future.", errs[0].Message)
	assert.Equal(t, "Admission date cannot be in the future.", errs[1].Message)
}

func TestValidateAcceptsToday(t *testing.T) {
	in := validAdmission()
	in["dob"] = "2026-10-16"

	_, err := fixedValidator().Validate(in, admissionRequired)
	assert.NoError(t, err)
}

func TestValidateDateOrdering(t *testing.T) {
	in := validAdmission()
	in["dob"] = "2020-01-01"
	in["admission_date"] = "2019-06-01"

	_, err := fixedValidator().Validate(in, admissionRequired)

	errs := validationErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "Date of birth must be on or before the admission date.", errs[0].Message)
}

func TestValidateSkipsFormatChecksForEmptyOptionalFields(t *testing.T) {
	in := validAdmission()
	in["email"] = ""
	delete(in, "parent_phone")

	_, err := fixedValidator().Validate(in, admissionRequired)
	assert.NoError(t, err)
}

func TestValidateRequiredFieldNotDoubleReported(t *testing.T) {
	in := validAdmission()
	in["phone"] = " "

	_, err := fixedValidator().Validate(in, admissionRequired)

	errs := validationErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "Phone is required.", errs[0].Message)
}

func TestValidateRecordUsesDefaults(t *testing.T) {
	_, err := ValidateRecord(map[string]string{"phone": "123"}, []string{"name"})

	errs := validationErrors(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "Name is required.", errs[0].Message)
	assert.Equal(t, MsgPhoneFormat, errs[1].Message)
}

func TestValidateEnforcesColumnLimits(t *testing.T) {
	fields := validAdmission()
	fields["first_name"] = strings.Repeat("a", 101)
	fields["course"] = strings.Repeat("ब", 150)
	fields["school_type"] = strings.Repeat("x", 51)
	fields["phone"] = "12"

	_, err := fixedValidator().Validate(fields, admissionRequired)
	errs := validationErrors(t, err)
	require.Len(t, errs, 3)
	assert.Equal(t, apperrors.FieldError{Field: "first_name", Message: "First name must be at most 100 characters."}, errs[0])
	assert.Equal(t, "school_type", errs[1].Field)
	assert.Equal(t, "phone", errs[2].Field)
}

func TestMergeAndOneOf(t *testing.T) {
	assert.NoError(t, Merge(nil))
	assert.NoError(t, Merge(nil, nil, OneOf("gender", "male", "male", "female")))

	gender := OneOf("gender", "robot", "male", "female", "other")
	require.NotNil(t, gender)
	assert.Equal(t, "Gender must be one of: male, female, other.", gender.Message)

	_, err := ValidateRecord(map[string]string{}, []string{"name"})
	errs := validationErrors(t, Merge(err, gender))
	require.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "gender", errs[1].Field)

	plain := assert.AnError
	assert.Equal(t, plain, Merge(plain, gender))
}
