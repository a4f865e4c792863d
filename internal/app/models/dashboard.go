package models

// DashboardStats summarises the whole installation.
type DashboardStats struct {
	TotalStudents      int64  `json:"totalStudents" example:"120"`
	ActiveStudents     int64  `json:"activeStudents" example:"110"`
	PendingAdmissions  int64  `json:"pendingAdmissions" example:"4"`
	AdmissionsThisYear int64  `json:"admissionsThisYear" example:"37"`
	FeesCollected      string `json:"feesCollected" example:"185000.00"`
	PendingDues        string `json:"pendingDues" example:"12500.00"`
	ActiveUsers        int64  `json:"activeUsers" example:"9"`
	ActiveInstitutes   int64  `json:"activeInstitutes" example:"3"`
}
