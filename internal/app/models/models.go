package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleOffice  RoleType = "office"
	RoleStaff   RoleType = "staff"
	RoleStudent RoleType = "student"
	RoleTeacher RoleType = "teacher"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleOffice, RoleStaff, RoleStudent, RoleTeacher:
		return true
	}
	return false
}

// ActiveStatus is the two-state status of users and institute branches.
type ActiveStatus string

const (
	StatusActive   ActiveStatus = "active"
	StatusInactive ActiveStatus = "inactive"
)

// Toggle returns the complementary status.
func (s ActiveStatus) Toggle() ActiveStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// ActiveStatusOf renders a boolean flag as an ActiveStatus.
func ActiveStatusOf(active bool) ActiveStatus {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// AdmissionStatus is the review state of an admission application.
type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "Pending"
	AdmissionApproved AdmissionStatus = "Approved"
)

// EntityKind names the entities whose status can be toggled.
type EntityKind string

const (
	EntityStudent   EntityKind = "student"
	EntityUser      EntityKind = "user"
	EntityInstitute EntityKind = "institute"
)

// ParseEntityKind accepts singular or plural kinds, e.g. "students".
func ParseEntityKind(s string) (EntityKind, bool) {
	switch s {
	case "student", "students":
		return EntityStudent, true
	case "user", "users":
		return EntityUser, true
	case "institute", "institutes":
		return EntityInstitute, true
	}
	return "", false
}

// Title is the capitalised display name used in user-facing messages.
func (k EntityKind) Title() string {
	switch k {
	case EntityStudent:
		return "Student"
	case EntityUser:
		return "User"
	case EntityInstitute:
		return "Institute"
	}
	return string(k)
}

// ToggleResult is the outcome of a status toggle.
type ToggleResult struct {
	Kind      EntityKind   `json:"kind" example:"student"`
	ID        int64        `json:"id" example:"12"`
	NewStatus ActiveStatus `json:"newStatus" example:"inactive"`
	IsActive  bool         `json:"isActive" example:"false"`
	Message   string       `json:"message" example:"Status updated successfully"`
}
