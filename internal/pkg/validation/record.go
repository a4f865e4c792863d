package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vemac/institute/internal/pkg/apperrors"
)

// Record is a validated, trimmed set of form fields. Email values are lower-cased.
type Record map[string]string

// Get returns the normalized value of field or "".
func (r Record) Get(field string) string {
	return r[field]
}

// Date parses field as a calendar date. ok is false when the field is empty or malformed.
func (r Record) Date(field string) (time.Time, bool) {
	v := r[field]
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validator checks raw form input. Fields are classified by name: phone fields must be
// 10-15 digits, email fields must be addresses and past date fields must be on or before today.
// MaxLengths caps the length, in characters, of the fields it names.
type Validator struct {
	Now            func() time.Time
	PhoneFields    []string
	EmailFields    []string
	PastDateFields []string
	MaxLengths     map[string]int
}

// ColumnLimits mirrors the VARCHAR widths of the tables the validated records are stored in.
var ColumnLimits = map[string]int{
	"first_name":            100,
	"last_name":             100,
	"username":              100,
	"name":                  150,
	"parent_name":           150,
	"institute_name":        150,
	"office_incharge":       150,
	"course":                150,
	"school":                150,
	"referred_by":           150,
	"admission_accepted_by": 150,
	"qualification":         150,
	"school_type":           50,
	"grade":                 50,
	"preferred_time":        50,
	"email":                 255,
}

// NewValidator returns a Validator with the field classification used across the application.
func NewValidator() *Validator {
	return &Validator{
		Now:            time.Now,
		PhoneFields:    []string{"phone", "parent_phone", "contact", "incharge_contact"},
		EmailFields:    []string{"email"},
		PastDateFields: []string{"dob", "admission_date"},
		MaxLengths:     ColumnLimits,
	}
}

var defaultValidator = NewValidator()

// ValidateRecord validates fields with the default Validator.
func ValidateRecord(fields map[string]string, required []string) (Record, error) {
	return defaultValidator.Validate(fields, required)
}

// Validate runs every rule and accumulates all violations. Order of the reported errors:
// required fields in the order given, then length limits by field name, then phone, email
// and date rules, then date ordering.
// On success the normalized record is returned; otherwise a *apperrors.ValidationError.
func (v *Validator) Validate(fields map[string]string, required []string) (Record, error) {
	rec := make(Record, len(fields))
	for k, val := range fields {
		rec[k] = strings.TrimSpace(val)
	}
	for _, f := range v.EmailFields {
		if val, ok := rec[f]; ok {
			rec[f] = strings.ToLower(val)
		}
	}

	var errs []apperrors.FieldError
	missing := make(map[string]bool, len(required))
	for _, f := range required {
		if rec[f] == "" && !missing[f] {
			missing[f] = true
			errs = append(errs, apperrors.FieldError{Field: f, Message: RequiredMessage(f)})
		}
	}

	limited := make([]string, 0, len(v.MaxLengths))
	for f := range v.MaxLengths {
		if _, ok := rec[f]; ok {
			limited = append(limited, f)
		}
	}
	sort.Strings(limited)
	for _, f := range limited {
		if limit := v.MaxLengths[f]; utf8.RuneCountInString(rec[f]) > limit {
			errs = append(errs, apperrors.FieldError{Field: f, Message: MaxLengthMessage(f, limit)})
		}
	}

	for _, f := range v.PhoneFields {
		if val := rec[f]; val != "" && !IsValidPhone(val) {
			errs = append(errs, apperrors.FieldError{Field: f, Message: MsgPhoneFormat})
		}
	}

	for _, f := range v.EmailFields {
		if val := rec[f]; val != "" && !IsValidEmail(val) {
			errs = append(errs, apperrors.FieldError{Field: f, Message: MsgEmailFormat})
		}
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	parsed := make(map[string]time.Time, len(v.PastDateFields))
	for _, f := range v.PastDateFields {
		val := rec[f]
		if val == "" {
			continue
		}
		d, err := time.Parse(DateLayout, val)
		if err != nil {
			errs = append(errs, apperrors.FieldError{
				Field:   f,
				Message: fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", Label(f)),
			})
			continue
		}
		if d.After(today) {
			errs = append(errs, apperrors.FieldError{
				Field:   f,
				Message: fmt.Sprintf("%s cannot be in the future.", Label(f)),
			})
			continue
		}
		parsed[f] = d
	}

	dob, hasDOB := parsed["dob"]
	admitted, hasAdmission := parsed["admission_date"]
	if hasDOB && hasAdmission && dob.After(admitted) {
		errs = append(errs, apperrors.FieldError{
			Field:   "dob",
			Message: "Date of birth must be on or before the admission date.",
		})
	}

	if len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs...)
	}
	return rec, nil
}

// CurrentTime returns the time according to the validator's clock.
func (v *Validator) CurrentTime() time.Time {
	return v.now()
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

// Merge appends extra field errors to the outcome of Validate. The result is nil only when
// err is nil and there are no extras. Errors other than validation failures pass through.
func Merge(err error, extra ...*apperrors.FieldError) error {
	var out []apperrors.FieldError
	if err != nil {
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		out = append(out, ve.Errors...)
	}
	for _, fe := range extra {
		if fe != nil {
			out = append(out, *fe)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return apperrors.NewValidationError(out...)
}

// OneOf reports a field error when a non-empty value is not one of allowed.
func OneOf(field, value string, allowed ...string) *apperrors.FieldError {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &apperrors.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of: %s.", Label(field), strings.Join(allowed, ", ")),
	}
}
