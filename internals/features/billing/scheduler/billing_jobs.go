package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	semesterModel "kampusku_backend/internals/features/academic/semesters/model"
	"kampusku_backend/internals/configs"
	model "kampusku_backend/internals/features/billing/model"
	service "kampusku_backend/internals/features/billing/service"
)

/*
Job batch billing. Tiap job = fungsi murni dari (db, cfg, now) — tanpa
state global, dipicu oleh Registry (atau langsung dari test dengan `now`
deterministik). Kegagalan per item diisolasi, tidak membatalkan batch.
*/

// GenerateBillingJob: generate billing untuk semester aktif,
// sekali saja per semester (dijaga billing_generation_date).
func GenerateBillingJob(db *gorm.DB, cfg configs.BillingConfig, now time.Time) error {
	ctx := context.Background()
	log.Println("[JOB] Generate billing dimulai...")

	var sem semesterModel.Semester
	if err := db.WithContext(ctx).
		First(&sem, "semester_is_active = ?", true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Println("[JOB] Tidak ada semester aktif — skip")
			return nil
		}
		return err
	}

	if sem.SemesterBillingGenerationDate != nil {
		log.Printf("[JOB] Billing semester %q sudah pernah di-generate — skip", sem.SemesterName)
		return nil
	}

	res, err := service.GenerateForSemester(ctx, db, sem.SemesterID, cfg.DefaultDueDays, now)
	if err != nil {
		return err
	}
	if err := service.MarkSemesterGenerated(ctx, db, sem.SemesterID, now); err != nil {
		return err
	}

	log.Printf("[JOB] Generate billing selesai: %d dibuat, %d dilewati, %d gagal",
		res.CreatedCount, res.SkippedCount, res.FailedCount)
	return nil
}

// UpdatePenaltyJob: hitung ulang denda semua billing yang masih open.
// Hanya billing yang dendanya BERUBAH yang di-persist.
func UpdatePenaltyJob(db *gorm.DB, cfg configs.BillingConfig, now time.Time) error {
	ctx := context.Background()
	log.Println("[JOB] Update denda dimulai...")

	var billings []model.Billing
	if err := db.WithContext(ctx).
		Where("billing_status IN ?", model.BillingOpenStatuses).
		Find(&billings).Error; err != nil {
		return err
	}

	updated := 0
	for i := range billings {
		b := &billings[i]
		if !service.ApplyPenalty(b, cfg.PenaltyPerDay, cfg.MaxPenalty, now) {
			continue
		}
		if err := db.WithContext(ctx).Save(b).Error; err != nil {
			log.Printf("[JOB ERROR] gagal update denda billing %d: %v", b.BillingID, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("[JOB] Update denda selesai: %d billing diperbarui", updated)
	} else {
		log.Println("[JOB] Tidak ada denda yang perlu diperbarui")
	}
	return nil
}

// SendReminderJob: scan tagihan jatuh tempo ≤ 7 hari ke depan + yang overdue.
// Pengiriman email ditangani sistem eksternal; job ini hanya menyiapkan daftar.
func SendReminderJob(db *gorm.DB, _ configs.BillingConfig, now time.Time) error {
	ctx := context.Background()
	log.Println("[JOB] Reminder pembayaran dimulai...")

	var upcoming []model.Billing
	if err := db.WithContext(ctx).
		Where("billing_status <> ?", model.BillingStatusPaid).
		Where("billing_due_date BETWEEN ? AND ?", now, now.AddDate(0, 0, 7)).
		Find(&upcoming).Error; err != nil {
		return err
	}

	var overdue []model.Billing
	if err := db.WithContext(ctx).
		Where("billing_status = ?", model.BillingStatusOverdue).
		Find(&overdue).Error; err != nil {
		return err
	}

	log.Printf("[JOB] Reminder selesai: %d akan jatuh tempo, %d overdue", len(upcoming), len(overdue))
	return nil
}
