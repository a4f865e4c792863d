package filestorage

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/vemac/institute/internal/pkg/apperrors"
)

// UploadRule restricts what a form field may carry
type UploadRule struct {
	Field      string
	Label      string
	MaxBytes   int64
	Extensions []string
}

// PhotoRule accepts jpeg and png images up to maxBytes
func PhotoRule(maxBytes int64) UploadRule {
	return UploadRule{Field: "photo", Label: "Photo", MaxBytes: maxBytes, Extensions: []string{".jpg", ".jpeg", ".png"}}
}

// CVRule accepts pdf and word documents up to maxBytes
func CVRule(maxBytes int64) UploadRule {
	return UploadRule{Field: "cv", Label: "CV", MaxBytes: maxBytes, Extensions: []string{".pdf", ".doc", ".docx"}}
}

// Check validates fh against the rule. A nil header passes.
func (r UploadRule) Check(fh *multipart.FileHeader) *apperrors.FieldError {
	if fh == nil {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	allowed := false
	for _, e := range r.Extensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return &apperrors.FieldError{
			Field:   r.Field,
			Message: fmt.Sprintf("%s must be one of: %s.", r.Label, strings.Join(r.Extensions, ", ")),
		}
	}
	if r.MaxBytes > 0 && fh.Size > r.MaxBytes {
		return &apperrors.FieldError{
			Field:   r.Field,
			Message: fmt.Sprintf("%s must not exceed %d MB.", r.Label, r.MaxBytes>>20),
		}
	}
	return nil
}
