package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// PhonePattern accepts digits only, 10 to 15 of them.
	PhonePattern = `^\d{10,15}$`

	// PasswordMinLength is the shortest password accepted for an account.
	PasswordMinLength = 8

	// DateLayout is the only calendar date format accepted in input.
	DateLayout = "2006-01-02"
)

// Messages shared by every caller that validates the same rule.
const (
	MsgPhoneFormat = "Invalid phone number format (10-15 digits required)."
	MsgEmailFormat = "Invalid email format."
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(TagName)
	return v
}

// TagName names a struct field after its json tag, or its form tag when there is no json tag.
// An empty result makes the validator fall back to the Go field name.
func TagName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		}
		return name
	}
	return ""
}

// IsValidPhone reports whether value is 10 to 15 digits.
func IsValidPhone(value string) bool {
	return CompiledPatterns.Phone.MatchString(value)
}

// IsValidEmail reports whether value has the local@domain.tld shape.
func IsValidEmail(value string) bool {
	if !strings.Contains(value, "@") {
		return false
	}
	domain := value[strings.LastIndex(value, "@")+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	return validate.Var(value, "required,email") == nil
}

// Label turns a field name such as parent_phone into "Parent phone".
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	words := strings.ReplaceAll(strings.TrimSpace(field), "_", " ")
	if words == "" {
		return words
	}
	r := []rune(words)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var labels = map[string]string{
	"dob":              "Date of birth",
	"fee_id":           "Fee ID",
	"cv":               "CV",
	"incharge_contact": "Incharge contact",
}

// RequiredMessage is the message reported for an empty required field.
func RequiredMessage(field string) string {
	return Label(field) + " is required."
}

// MaxLengthMessage is the message reported for a value longer than max characters.
func MaxLengthMessage(field string, limit int) string {
	return fmt.Sprintf("%s must be at most %d characters.", Label(field), limit)
}

// Struct validates a tagged struct with go-playground/validator and reports every
// violation as a ValidationError with readable messages.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := FieldName(fe)
		out = append(out, apperrors.FieldError{Field: field, Message: FieldErrorMessage(field, fe)})
	}
	return apperrors.NewValidationError(out...)
}

// FieldErrorMessage renders one validator failure.
func FieldErrorMessage(field string, fe validator.FieldError) string {
	label := Label(field)
	switch fe.Tag() {
	case "required", "required_if":
		return RequiredMessage(field)
	case "email":
		return MsgEmailFormat
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", label)
	case "numeric":
		return fmt.Sprintf("%s must contain digits only.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// FieldName is the name clients send for the failed field: its tag name, or the Go field
// name converted to snake_case when the field carries no tag.
func FieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return apperrors.NewValidationError(apperrors.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters long.", PasswordMinLength),
		})
	}
	return nil
}
