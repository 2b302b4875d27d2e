package dto

import (
	model "kampusku_backend/internals/features/academic/students/model"
)

type CreateStudentRequest struct {
	NIM            string  `json:"nim" validate:"required,max=20"`
	Name           string  `json:"name" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=15"`
	ProgramStudiID int     `json:"program_studi_id" validate:"required,min=1"`
}

func (r CreateStudentRequest) ToModel() model.Student {
	return model.Student{
		StudentNIM:            r.NIM,
		StudentName:           r.Name,
		StudentEmail:          r.Email,
		StudentPhone:          r.Phone,
		StudentProgramStudiID: r.ProgramStudiID,
		StudentStatus:         model.StudentStatusActive,
	}
}

type CreateProgramStudiRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Code      string `json:"code" validate:"required,max=10"`
	SPPAmount int    `json:"spp_amount" validate:"required,gt=0"` // Rp per semester
}

func (r CreateProgramStudiRequest) ToModel() model.ProgramStudi {
	return model.ProgramStudi{
		ProgramStudiName:      r.Name,
		ProgramStudiCode:      r.Code,
		ProgramStudiSPPAmount: r.SPPAmount,
	}
}
