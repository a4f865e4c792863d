package services

import (
	"context"
	"mime/multipart"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/pkg/admission"
)

// The services depend on these narrow views of the repositories so tests can swap in fakes.

// StudentStore persists student records
type StudentStore interface {
	CreateWithAdmissionCode(ctx context.Context, student *models.Student, policy admission.Policy, year int) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	SetAdmissionStatus(ctx context.Context, id int64, status models.AdmissionStatus) (*models.Student, error)
	ToggleActive(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (*string, error)
}

// AdmissionCodeStore reserves admission codes outside of an admission
type AdmissionCodeStore interface {
	Reserve(ctx context.Context, policy admission.Policy, year int) (string, error)
}

// FeeStore persists fees
type FeeStore interface {
	Upsert(ctx context.Context, fee *models.Fee) (bool, error)
	GetByID(ctx context.Context, feeID string) (*models.Fee, error)
	MarkPaid(ctx context.Context, feeID string) (*models.Fee, bool, error)
	List(ctx context.Context, filter models.FeeFilter) ([]*models.Fee, int64, error)
}

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (models.ActiveStatus, error)
}

// InstituteStore persists institute branches
type InstituteStore interface {
	Create(ctx context.Context, inst *models.Institute) error
	GetByID(ctx context.Context, id int64) (*models.Institute, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Institute, error)
	Update(ctx context.Context, inst *models.Institute) error
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (models.ActiveStatus, error)
}

// InquiryStore persists contact requests
type InquiryStore interface {
	Create(ctx context.Context, inq *models.Inquiry) error
	List(ctx context.Context, role models.InquiryRole, offset uint64, limit int) ([]*models.Inquiry, int64, error)
}

// DashboardStore computes totals
type DashboardStore interface {
	Stats(ctx context.Context, year int) (*models.DashboardStats, error)
}

// FileStore keeps uploaded files
type FileStore interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)
	DeleteFile(filePath string) error
}
