package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	semesterModel "kampusku_backend/internals/features/academic/semesters/model"
	studentModel "kampusku_backend/internals/features/academic/students/model"
	billingModel "kampusku_backend/internals/features/billing/model"
	model "kampusku_backend/internals/features/payment/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&studentModel.ProgramStudi{},
		&studentModel.Student{},
		&semesterModel.Semester{},
		&billingModel.Billing{},
		&model.PaymentMethod{},
		&model.Payment{},
		&model.PaymentReconciliation{},
	))
	return db
}

func seedBilling(t *testing.T, db *gorm.DB, total int, due time.Time) billingModel.Billing {
	t.Helper()
	b := billingModel.Billing{
		BillingStudentID:       1,
		BillingSemester:        "2025/2026-Ganjil",
		BillingTotalAmount:     total,
		BillingRemainingAmount: total,
		BillingDueDate:         due,
		BillingStatus:          billingModel.BillingStatusUnpaid,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestProcessPayment(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, -7)

	t.Run("pembayaran sebagian tercatat atomik", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		res, err := ProcessPayment(ctx, db, b.BillingID, 2500000, nil, "TXN-001", "manual", now)
		require.NoError(t, err)

		assert.Equal(t, model.PaymentStatusConfirmed, res.Payment.PaymentStatus)
		assert.Equal(t, 2500000, res.Payment.PaymentAmount)
		assert.NotEmpty(t, res.Payment.PaymentReferenceCode)

		var got billingModel.Billing
		require.NoError(t, db.First(&got, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 2500000, got.BillingPaidAmount)
		assert.Equal(t, 2500000, got.BillingRemainingAmount)
		assert.Equal(t, billingModel.BillingStatusPartial, got.BillingStatus)
	})

	t.Run("pelunasan penuh", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		res, err := ProcessPayment(ctx, db, b.BillingID, 5000000, nil, "TXN-002", "manual", now)
		require.NoError(t, err)
		assert.Equal(t, billingModel.BillingStatusPaid, res.Billing.BillingStatus)
		assert.Equal(t, 0, res.Billing.BillingRemainingAmount)
	})

	t.Run("overpayment ditolak, tidak ada payment tersimpan", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		_, err := ProcessPayment(ctx, db, b.BillingID, 6000000, nil, "TXN-003", "manual", now)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)

		var got billingModel.Billing
		require.NoError(t, db.First(&got, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, got.BillingPaidAmount)
	})

	t.Run("transaction_id duplikat ditolak 409", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		_, err := ProcessPayment(ctx, db, b.BillingID, 1000000, nil, "TXN-DUP", "manual", now)
		require.NoError(t, err)

		_, err = ProcessPayment(ctx, db, b.BillingID, 1000000, nil, "TXN-DUP", "manual", now.Add(time.Minute))
		require.Error(t, err)

		// mutasi billing dari attempt kedua ikut di-rollback
		var got billingModel.Billing
		require.NoError(t, db.First(&got, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 1000000, got.BillingPaidAmount)
	})

	t.Run("billing tidak ada", func(t *testing.T) {
		db := newTestDB(t)
		_, err := ProcessPayment(ctx, db, 42, 1000000, nil, "TXN-004", "manual", now)
		assert.Error(t, err)
	})
}

func TestInitiatePayment(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, -7)

	t.Run("payment pending dengan reference code baru", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		p, err := InitiatePayment(ctx, db, b.BillingID, 2500000, nil, "vabank", now)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
		assert.Contains(t, p.PaymentReferenceCode, "PAY")
		assert.Equal(t, b.BillingStudentID, p.PaymentStudentID)

		// billing TIDAK berubah sebelum webhook datang
		var got billingModel.Billing
		require.NoError(t, db.First(&got, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, got.BillingPaidAmount)
	})

	t.Run("jumlah nol ditolak", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		_, err := InitiatePayment(ctx, db, b.BillingID, 0, nil, "vabank", now)
		assert.Error(t, err)
	})
}

func TestGetPaymentHistory(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, -7)

	db := newTestDB(t)
	b := seedBilling(t, db, 5000000, due)

	_, err := ProcessPayment(ctx, db, b.BillingID, 1000000, nil, "TXN-H1", "manual", now)
	require.NoError(t, err)
	_, err = ProcessPayment(ctx, db, b.BillingID, 2000000, nil, "TXN-H2", "manual", now.Add(time.Hour))
	require.NoError(t, err)

	history, err := GetPaymentHistory(ctx, db, b.BillingStudentID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	limited, err := GetPaymentHistory(ctx, db, b.BillingStudentID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetPaymentStatistics(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, -7)

	db := newTestDB(t)
	b := seedBilling(t, db, 5000000, due)

	_, err := ProcessPayment(ctx, db, b.BillingID, 1000000, nil, "TXN-S1", "manual", now)
	require.NoError(t, err)
	_, err = ProcessPayment(ctx, db, b.BillingID, 3000000, nil, "TXN-S2", "manual", now)
	require.NoError(t, err)

	stats, err := GetPaymentStatistics(ctx, db, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPayments)
	assert.Equal(t, 4000000, stats.TotalAmount)
	assert.InDelta(t, 2000000, stats.AverageAmount, 0.01)
}

func TestGenerateReferenceCode(t *testing.T) {
	now := time.Date(2025, 9, 8, 13, 45, 30, 0, time.UTC)

	code := GenerateReferenceCode(now)
	assert.Len(t, code, 3+14+6)
	assert.Equal(t, "PAY20250908134530", code[:17])

	// komponen random membuat dua code pada detik sama tetap berbeda
	assert.NotEqual(t, code, GenerateReferenceCode(now))
}

func TestGenerateTestReferenceCode(t *testing.T) {
	now := time.Date(2025, 9, 8, 13, 45, 30, 0, time.UTC)

	a := GenerateTestReferenceCode(7, now)
	b := GenerateTestReferenceCode(7, now)
	assert.True(t, strings.HasPrefix(a, "TEST-7-20250908134530-"))

	// mahasiswa yang sama, detik yang sama — tetap tidak boleh tabrakan
	// di unique index reference_code
	assert.NotEqual(t, a, b)
}
