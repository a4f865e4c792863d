package models

import (
	"time"
)

// Student is an admitted (or applying) student, stored in 'student_data'
type Student struct {
	ID                  int64           `json:"id" db:"id" example:"1"`
	AdmissionCode       string          `json:"admissionCode" db:"admission_code" example:"INST-2026-0001"`
	InstituteName       string          `json:"instituteName" db:"institute_name" example:"Main Branch"`
	FirstName           string          `json:"firstName" db:"first_name" example:"Asha"`
	LastName            string          `json:"lastName" db:"last_name" example:"Verma"`
	DOB                 time.Time       `json:"dob" db:"dob" example:"2012-04-01T00:00:00Z"`
	Gender              Gender          `json:"gender" db:"gender" example:"female"`
	Email               *string         `json:"email,omitempty" db:"email" example:"asha@example.com"`
	Phone               string          `json:"phone" db:"phone" example:"9876543210"`
	ParentName          string          `json:"parentName" db:"parent_name" example:"Rakesh Verma"`
	ParentPhone         string          `json:"parentPhone" db:"parent_phone" example:"9123456780"`
	Address             string          `json:"address" db:"address" example:"12 MG Road, Pune, MH, 411001, India"`
	Course              string          `json:"course" db:"course" example:"Vedic Maths Level 1"`
	SchoolType          string          `json:"schoolType" db:"school_type" example:"CBSE"`
	School              string          `json:"school" db:"school" example:"City Public School"`
	ReferredBy          string          `json:"referredBy" db:"referred_by"`
	AdmissionAcceptedBy string          `json:"admissionAcceptedBy" db:"admission_accepted_by"`
	AdmissionDate       time.Time       `json:"admissionDate" db:"admission_date" example:"2026-10-16T00:00:00Z"`
	Status              AdmissionStatus `json:"status" db:"status" example:"Pending"`
	IsActive            bool            `json:"isActive" db:"is_active" example:"true"`
	PhotoPath           *string         `json:"photoPath,omitempty" db:"photo_path"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentFilter narrows student listings. Search matches name, email or admission code.
type StudentFilter struct {
	Search        string
	InstituteName string
	Status        AdmissionStatus
	Offset        uint64
	Limit         int
}
