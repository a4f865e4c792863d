package models

import "time"

// Institute is a branch of the institute, stored in 'institute_branch'
type Institute struct {
	ID              int64        `json:"id" db:"id" example:"1"`
	Name            string       `json:"name" db:"name" example:"Main Branch"`
	Address         string       `json:"address" db:"address" example:"12 MG Road, Pune"`
	Contact         string       `json:"contact" db:"contact" example:"02012345678"`
	OfficeIncharge  string       `json:"officeIncharge" db:"office_incharge" example:"Ritu Sharma"`
	InchargeContact string       `json:"inchargeContact" db:"incharge_contact" example:"9876543210"`
	Status          ActiveStatus `json:"status" db:"status" example:"active"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}
