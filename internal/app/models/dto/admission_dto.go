package dto

import "github.com/vemac/institute/internal/app/models"

// AdmissionCodeRequest asks for the next admission code of a year. Zero means the current year.
type AdmissionCodeRequest struct {
	Year int `json:"year" form:"year" example:"2026"`
}

// AdmissionCodeResponse is a reserved admission code
type AdmissionCodeResponse struct {
	Year          int    `json:"year" example:"2026"`
	AdmissionCode string `json:"admissionCode" example:"INST-2026-0042"`
}

// AdmissionResponse is returned after a successful admission
type AdmissionResponse struct {
	AdmissionCode string          `json:"admissionCode" example:"INST-2026-0001"`
	Student       *models.Student `json:"student"`
}

// SaveFeeResponse reports whether a fee was added or replaced
type SaveFeeResponse struct {
	Outcome models.FeeOutcome `json:"outcome" example:"inserted"`
	Fee     *models.Fee       `json:"fee"`
}

// StatusResponse is the result of a status toggle
type StatusResponse = models.ToggleResult
