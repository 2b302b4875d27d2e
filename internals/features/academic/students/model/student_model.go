package model

import (
	"time"
)

const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusGraduated = "graduated"
)

type Student struct {
	StudentID int `gorm:"column:student_id;primaryKey;autoIncrement" json:"student_id"`

	StudentNIM   string  `gorm:"column:student_nim;type:varchar(20);not null;uniqueIndex" json:"student_nim"`
	StudentName  string  `gorm:"column:student_name;type:varchar(100);not null" json:"student_name"`
	StudentEmail string  `gorm:"column:student_email;type:varchar(100);not null;uniqueIndex" json:"student_email"`
	StudentPhone *string `gorm:"column:student_phone;type:varchar(15)" json:"student_phone,omitempty"`

	StudentProgramStudiID int    `gorm:"column:student_program_studi_id;not null;index" json:"student_program_studi_id"`
	StudentStatus         string `gorm:"column:student_status;type:varchar(20);not null;default:'active'" json:"student_status"`

	StudentRegistrationDate time.Time `gorm:"column:student_registration_date;autoCreateTime" json:"student_registration_date"`
	StudentCreatedAt        time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt        time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (Student) TableName() string { return "students" }

// ProgramStudi menyimpan tarif SPP per semester untuk tiap prodi.
type ProgramStudi struct {
	ProgramStudiID        int       `gorm:"column:program_studi_id;primaryKey;autoIncrement" json:"program_studi_id"`
	ProgramStudiName      string    `gorm:"column:program_studi_name;type:varchar(100);not null;uniqueIndex" json:"program_studi_name"`
	ProgramStudiCode      string    `gorm:"column:program_studi_code;type:varchar(10);not null;uniqueIndex" json:"program_studi_code"`
	ProgramStudiSPPAmount int       `gorm:"column:program_studi_spp_amount;not null" json:"program_studi_spp_amount"` // Rp per semester
	ProgramStudiCreatedAt time.Time `gorm:"column:program_studi_created_at;autoCreateTime" json:"program_studi_created_at"`
	ProgramStudiUpdatedAt time.Time `gorm:"column:program_studi_updated_at;autoUpdateTime" json:"program_studi_updated_at"`
}

func (ProgramStudi) TableName() string { return "program_studi" }
