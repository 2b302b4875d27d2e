package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentModel "kampusku_backend/internals/features/academic/students/model"
	model "kampusku_backend/internals/features/billing/model"
)

// EligibilityResult = jawaban gate KRS untuk satu mahasiswa.
type EligibilityResult struct {
	CanRegister bool   `json:"can_register"`
	Outstanding int    `json:"outstanding"`
	Message     string `json:"message"`
}

// CanRegisterKRS: mahasiswa boleh isi KRS jika total tunggakan
// (billing unpaid/partial/overdue) = 0. Read-only, selalu baca state terkini.
func CanRegisterKRS(ctx context.Context, db *gorm.DB, studentID int) (EligibilityResult, error) {
	var res EligibilityResult

	var student studentModel.Student
	if err := db.WithContext(ctx).First(&student, "student_id = ?", studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, fiber.NewError(fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var outstanding int64
	if err := db.WithContext(ctx).Model(&model.Billing{}).
		Where("billing_student_id = ? AND billing_status IN ?", studentID, model.BillingOpenStatuses).
		Select("COALESCE(SUM(billing_remaining_amount), 0)").
		Scan(&outstanding).Error; err != nil {
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	res.Outstanding = int(outstanding)
	if outstanding > 0 {
		res.CanRegister = false
		res.Message = fmt.Sprintf("Mahasiswa memiliki tunggakan sebesar Rp %d", outstanding)
		return res, nil
	}

	res.CanRegister = true
	res.Message = "Mahasiswa bisa mendaftar KRS"
	return res, nil
}

// BillingSummary = ringkasan tagihan satu mahasiswa.
type BillingSummary struct {
	Student          studentModel.Student `json:"student"`
	TotalBilled      int                  `json:"total_billed"`
	TotalPaid        int                  `json:"total_paid"`
	TotalOutstanding int                  `json:"total_outstanding"`
	Billings         []model.Billing      `json:"billings"`
}

func GetBillingSummary(ctx context.Context, db *gorm.DB, studentID int) (BillingSummary, error) {
	var sum BillingSummary

	if err := db.WithContext(ctx).First(&sum.Student, "student_id = ?", studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return sum, fiber.NewError(fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return sum, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := db.WithContext(ctx).
		Where("billing_student_id = ?", studentID).
		Order("billing_created_at DESC").
		Find(&sum.Billings).Error; err != nil {
		return sum, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	for i := range sum.Billings {
		b := &sum.Billings[i]
		sum.TotalBilled += b.BillingTotalAmount
		sum.TotalPaid += b.BillingPaidAmount
		sum.TotalOutstanding += OutstandingAmount(b)
	}
	return sum, nil
}
