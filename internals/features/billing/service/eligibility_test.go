package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	studentModel "kampusku_backend/internals/features/academic/students/model"
	model "kampusku_backend/internals/features/billing/model"
)

func seedBilling(t *testing.T, db *gorm.DB, studentID int, semester string, total, paid int, status string) model.Billing {
	t.Helper()
	b := model.Billing{
		BillingStudentID:       studentID,
		BillingSemester:        semester,
		BillingTotalAmount:     total,
		BillingPaidAmount:      paid,
		BillingRemainingAmount: total - paid,
		BillingDueDate:         time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		BillingStatus:          status,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestCanRegisterKRS(t *testing.T) {
	ctx := context.Background()

	t.Run("tanpa tunggakan boleh KRS", func(t *testing.T) {
		db := newTestDB(t)
		prodi := seedProgram(t, db, "Teknik Informatika", "TI", 5000000)
		s := seedStudent(t, db, "2023001", prodi.ProgramStudiID, studentModel.StudentStatusActive)
		seedBilling(t, db, s.StudentID, "2024/2025-Genap", 5000000, 5000000, model.BillingStatusPaid)

		res, err := CanRegisterKRS(ctx, db, s.StudentID)
		require.NoError(t, err)
		assert.True(t, res.CanRegister)
		assert.Equal(t, 0, res.Outstanding)
	})

	t.Run("tunggakan partial memblokir", func(t *testing.T) {
		db := newTestDB(t)
		prodi := seedProgram(t, db, "Teknik Informatika", "TI", 5000000)
		s := seedStudent(t, db, "2023001", prodi.ProgramStudiID, studentModel.StudentStatusActive)
		seedBilling(t, db, s.StudentID, "2025/2026-Ganjil", 5000000, 2500000, model.BillingStatusPartial)

		res, err := CanRegisterKRS(ctx, db, s.StudentID)
		require.NoError(t, err)
		assert.False(t, res.CanRegister)
		assert.Equal(t, 2500000, res.Outstanding)
		assert.Contains(t, res.Message, "2500000")
	})

	t.Run("tunggakan lintas semester diakumulasi", func(t *testing.T) {
		db := newTestDB(t)
		prodi := seedProgram(t, db, "Teknik Informatika", "TI", 5000000)
		s := seedStudent(t, db, "2023001", prodi.ProgramStudiID, studentModel.StudentStatusActive)
		seedBilling(t, db, s.StudentID, "2024/2025-Genap", 5000000, 0, model.BillingStatusOverdue)
		seedBilling(t, db, s.StudentID, "2025/2026-Ganjil", 5000000, 3000000, model.BillingStatusPartial)

		res, err := CanRegisterKRS(ctx, db, s.StudentID)
		require.NoError(t, err)
		assert.False(t, res.CanRegister)
		assert.Equal(t, 7000000, res.Outstanding)
	})

	t.Run("billing failed-status paid diabaikan", func(t *testing.T) {
		db := newTestDB(t)
		prodi := seedProgram(t, db, "Teknik Informatika", "TI", 5000000)
		s := seedStudent(t, db, "2023001", prodi.ProgramStudiID, studentModel.StudentStatusActive)
		other := seedStudent(t, db, "2023002", prodi.ProgramStudiID, studentModel.StudentStatusActive)
		// tunggakan mahasiswa LAIN tidak boleh ikut kehitung
		seedBilling(t, db, other.StudentID, "2025/2026-Ganjil", 5000000, 0, model.BillingStatusUnpaid)

		res, err := CanRegisterKRS(ctx, db, s.StudentID)
		require.NoError(t, err)
		assert.True(t, res.CanRegister)
	})

	t.Run("mahasiswa tidak ada", func(t *testing.T) {
		db := newTestDB(t)
		_, err := CanRegisterKRS(ctx, db, 42)
		assert.Error(t, err)
	})
}

func TestGetBillingSummary(t *testing.T) {
	db := newTestDB(t)
	prodi := seedProgram(t, db, "Teknik Informatika", "TI", 5000000)
	s := seedStudent(t, db, "2023001", prodi.ProgramStudiID, studentModel.StudentStatusActive)
	seedBilling(t, db, s.StudentID, "2024/2025-Genap", 5000000, 5000000, model.BillingStatusPaid)
	seedBilling(t, db, s.StudentID, "2025/2026-Ganjil", 5000000, 2000000, model.BillingStatusPartial)

	sum, err := GetBillingSummary(context.Background(), db, s.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 10000000, sum.TotalBilled)
	assert.Equal(t, 7000000, sum.TotalPaid)
	assert.Equal(t, 3000000, sum.TotalOutstanding)
	assert.Len(t, sum.Billings, 2)
}
