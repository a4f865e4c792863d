package models

import "time"

// InquiryRole says who is asking: a prospective student or a teacher applicant.
type InquiryRole string

const (
	InquiryStudent InquiryRole = "student"
	InquiryTeacher InquiryRole = "teacher"
)

// Inquiry is a public contact request.
type Inquiry struct {
	ID            int64       `json:"id" db:"id"`
	Role          InquiryRole `json:"role" db:"role" example:"teacher"`
	Name          string      `json:"name" db:"name"`
	Email         string      `json:"email" db:"email"`
	Phone         string      `json:"phone" db:"phone"`
	Grade         *string     `json:"grade,omitempty" db:"grade"`
	Qualification *string     `json:"qualification,omitempty" db:"qualification"`
	PreferredTime *string     `json:"preferredTime,omitempty" db:"preferred_time"`
	Message       *string     `json:"message,omitempty" db:"message"`
	CVPath        *string     `json:"cvPath,omitempty" db:"cv_path"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}
