package dto

import (
	"time"

	model "kampusku_backend/internals/features/academic/semesters/model"
)

type CreateSemesterRequest struct {
	Name      string    `json:"name" validate:"required,max=50"` // mis. "2025/2026-Ganjil"
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	IsActive  bool      `json:"is_active,omitempty"`
}

func (r CreateSemesterRequest) ToModel() model.Semester {
	return model.Semester{
		SemesterName:      r.Name,
		SemesterStartDate: r.StartDate,
		SemesterEndDate:   r.EndDate,
		SemesterIsActive:  r.IsActive,
	}
}
