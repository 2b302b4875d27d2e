package model

import (
	"time"
)

type Semester struct {
	SemesterID   int    `gorm:"column:semester_id;primaryKey;autoIncrement" json:"semester_id"`
	SemesterName string `gorm:"column:semester_name;type:varchar(50);not null;uniqueIndex" json:"semester_name"` // mis. "2025/2026-Ganjil"

	SemesterStartDate time.Time `gorm:"column:semester_start_date;not null" json:"semester_start_date"`
	SemesterEndDate   time.Time `gorm:"column:semester_end_date;not null" json:"semester_end_date"`

	// Terisi saat generator sudah jalan untuk semester ini (guard job otomatis)
	SemesterBillingGenerationDate *time.Time `gorm:"column:semester_billing_generation_date" json:"semester_billing_generation_date,omitempty"`

	SemesterIsActive  bool      `gorm:"column:semester_is_active;not null;default:false" json:"semester_is_active"`
	SemesterCreatedAt time.Time `gorm:"column:semester_created_at;autoCreateTime" json:"semester_created_at"`
	SemesterUpdatedAt time.Time `gorm:"column:semester_updated_at;autoUpdateTime" json:"semester_updated_at"`
}

func (Semester) TableName() string { return "semesters" }
