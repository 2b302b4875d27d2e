package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	billingModel "kampusku_backend/internals/features/billing/model"
	ledger "kampusku_backend/internals/features/billing/service"
	model "kampusku_backend/internals/features/payment/model"
	helper "kampusku_backend/internals/helpers"
)

// ProcessResult = payment yang tercatat + billing setelah mutasi.
type ProcessResult struct {
	Payment model.Payment        `json:"payment"`
	Billing billingModel.Billing `json:"billing"`
}

// ProcessPayment mencatat pembayaran manual/konfirmasi untuk satu billing.
// Satu transaksi DB: insert payment + mutasi billing atomik — crash di tengah
// tidak boleh kelihatan dari luar. Row billing dikunci FOR UPDATE selama apply
// supaya dua pembayaran paralel pada billing yang sama tidak saling menimpa.
func ProcessPayment(ctx context.Context, db *gorm.DB, billingID, amount int, methodID *int, transactionID, gatewayName string, now time.Time) (ProcessResult, error) {
	var res ProcessResult

	if gatewayName == "" {
		gatewayName = "manual"
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var billing billingModel.Billing
		if err := lockForUpdate(tx).
			First(&billing, "billing_id = ?", billingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Billing tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if err := ledger.ApplyPayment(&billing, amount, now); err != nil {
			return err
		}

		payment := model.Payment{
			PaymentStudentID:        billing.BillingStudentID,
			PaymentBillingID:        billing.BillingID,
			PaymentMethodID:         methodID,
			PaymentTransactionID:    transactionID,
			PaymentReferenceCode:    GenerateReferenceCode(now),
			PaymentAmount:           amount,
			PaymentStatus:           model.PaymentStatusConfirmed,
			PaymentGatewayName:      gatewayName,
			PaymentDate:             &now,
			PaymentConfirmationDate: &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if helper.IsDuplicateErr(err) {
				return fiber.NewError(fiber.StatusConflict, "transaction_id / reference_code sudah terpakai")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if err := tx.Save(&billing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		res.Payment = payment
		res.Billing = billing
		return nil
	})
	if err != nil {
		return res, err
	}

	log.Printf("[PAYMENT] %s tercatat untuk billing %d (Rp %d)", res.Payment.PaymentReferenceCode, billingID, amount)
	return res, nil
}

// InitiatePayment membuat payment PENDING + reference code baru sebagai
// konteks transaksi gateway — webhook nanti mencocokkan lewat reference code
// ini, bukan membuat payment dari nol.
func InitiatePayment(ctx context.Context, db *gorm.DB, billingID, amount int, methodID *int, gatewayName string, now time.Time) (model.Payment, error) {
	var payment model.Payment

	if amount <= 0 {
		return payment, fiber.NewError(fiber.StatusBadRequest, "Jumlah pembayaran harus lebih dari 0")
	}

	var billing billingModel.Billing
	if err := db.WithContext(ctx).First(&billing, "billing_id = ?", billingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payment, fiber.NewError(fiber.StatusNotFound, "Billing tidak ditemukan")
		}
		return payment, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	payment = model.Payment{
		PaymentStudentID:     billing.BillingStudentID,
		PaymentBillingID:     billing.BillingID,
		PaymentMethodID:      methodID,
		PaymentTransactionID: GenerateTransactionID("TXN"),
		PaymentReferenceCode: GenerateReferenceCode(now),
		PaymentAmount:        amount,
		PaymentStatus:        model.PaymentStatusPending,
		PaymentGatewayName:   gatewayName,
		PaymentDate:          &now,
	}
	if err := db.WithContext(ctx).Create(&payment).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return payment, fiber.NewError(fiber.StatusConflict, "reference_code sudah terpakai")
		}
		return payment, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return payment, nil
}

// GetPaymentHistory: riwayat pembayaran satu mahasiswa, terbaru dulu.
func GetPaymentHistory(ctx context.Context, db *gorm.DB, studentID, limit int) ([]model.Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	var payments []model.Payment
	if err := db.WithContext(ctx).
		Where("payment_student_id = ?", studentID).
		Order("payment_created_at DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return payments, nil
}

// PaymentStatistics = agregat pembayaran confirmed pada rentang tanggal.
type PaymentStatistics struct {
	TotalPayments int     `json:"total_payments"`
	TotalAmount   int     `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}

func GetPaymentStatistics(ctx context.Context, db *gorm.DB, start, end *time.Time) (PaymentStatistics, error) {
	var stats PaymentStatistics

	q := db.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_status = ?", model.PaymentStatusConfirmed)
	if start != nil {
		q = q.Where("payment_confirmation_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("payment_confirmation_date <= ?", *end)
	}

	var row struct {
		Cnt int64
		Sum int64
	}
	if err := q.Select("COUNT(*) AS cnt, COALESCE(SUM(payment_amount),0) AS sum").Scan(&row).Error; err != nil {
		return stats, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	stats.TotalPayments = int(row.Cnt)
	stats.TotalAmount = int(row.Sum)
	if row.Cnt > 0 {
		stats.AverageAmount = float64(row.Sum) / float64(row.Cnt)
	}
	return stats, nil
}

// lockForUpdate menambahkan SELECT ... FOR UPDATE.
// sqlite (dipakai di test) tidak mengenal FOR UPDATE — di sana serialisasi
// sudah dijamin single-writer, jadi clause hanya dipasang untuk postgres.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
