package service

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	semesterModel "kampusku_backend/internals/features/academic/semesters/model"
	studentModel "kampusku_backend/internals/features/academic/students/model"
	model "kampusku_backend/internals/features/billing/model"
	helper "kampusku_backend/internals/helpers"
)

// GenerateResult = hasil batch generate billing per semester.
type GenerateResult struct {
	CreatedCount int `json:"created_count"`
	SkippedCount int `json:"skipped_count"`
	FailedCount  int `json:"failed_count"`
}

// GenerateForSemester membuat 1 billing per mahasiswa aktif untuk semester tsb.
// Best-effort batch: tiap insert commit sendiri; kegagalan per-mahasiswa dihitung
// dan dilaporkan tanpa membatalkan sisa batch (lihat DESIGN.md).
//
// Tarif diambil eksplisit dari tabel program_studi — tidak ada traversal relasi
// implisit student → program_studi → spp_amount.
func GenerateForSemester(ctx context.Context, db *gorm.DB, semesterID, dueDays int, now time.Time) (GenerateResult, error) {
	var res GenerateResult

	var sem semesterModel.Semester
	if err := db.WithContext(ctx).
		First(&sem, "semester_id = ?", semesterID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, fiber.NewError(fiber.StatusNotFound, "Semester tidak ditemukan")
		}
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// Tarif SPP per prodi → map sekali di depan
	var programs []studentModel.ProgramStudi
	if err := db.WithContext(ctx).Find(&programs).Error; err != nil {
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	sppByProgram := make(map[int]int, len(programs))
	for _, p := range programs {
		sppByProgram[p.ProgramStudiID] = p.ProgramStudiSPPAmount
	}

	var students []studentModel.Student
	if err := db.WithContext(ctx).
		Where("student_status = ?", studentModel.StudentStatusActive).
		Find(&students).Error; err != nil {
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	dueDate := now.AddDate(0, 0, dueDays)

	for _, s := range students {
		var exists int64
		if err := db.WithContext(ctx).Model(&model.Billing{}).
			Where("billing_student_id = ? AND billing_semester = ?", s.StudentID, sem.SemesterName).
			Count(&exists).Error; err != nil {
			log.Printf("[ERROR] cek billing mahasiswa %s: %v", s.StudentNIM, err)
			res.FailedCount++
			continue
		}
		if exists > 0 {
			res.SkippedCount++
			continue
		}

		spp, ok := sppByProgram[s.StudentProgramStudiID]
		if !ok {
			log.Printf("[ERROR] program studi %d mahasiswa %s tidak ditemukan", s.StudentProgramStudiID, s.StudentNIM)
			res.FailedCount++
			continue
		}

		b := model.Billing{
			BillingStudentID:       s.StudentID,
			BillingSemester:        sem.SemesterName,
			BillingTotalAmount:     spp,
			BillingRemainingAmount: spp,
			BillingDueDate:         dueDate,
			BillingStatus:          model.BillingStatusUnpaid,
		}
		if err := db.WithContext(ctx).Create(&b).Error; err != nil {
			// race dengan run lain → unique (student, semester) menang; hitung skip
			if helper.IsDuplicateErr(err) {
				res.SkippedCount++
				continue
			}
			log.Printf("[ERROR] create billing mahasiswa %s: %v", s.StudentNIM, err)
			res.FailedCount++
			continue
		}
		res.CreatedCount++
	}

	log.Printf("[BILLING] generate semester %q: %d dibuat, %d dilewati, %d gagal",
		sem.SemesterName, res.CreatedCount, res.SkippedCount, res.FailedCount)
	return res, nil
}

// MarkSemesterGenerated menandai semester sudah pernah di-generate.
func MarkSemesterGenerated(ctx context.Context, db *gorm.DB, semesterID int, now time.Time) error {
	return db.WithContext(ctx).Model(&semesterModel.Semester{}).
		Where("semester_id = ?", semesterID).
		Update("semester_billing_generation_date", now).Error
}
