package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	billingModel "kampusku_backend/internals/features/billing/model"
	model "kampusku_backend/internals/features/payment/model"
)

const testSecret = "webhook-secret"

// signedPayload membangun payload webhook lengkap dengan signature valid.
func signedPayload(p *model.Payment, status string, amount int) map[string]interface{} {
	payload := map[string]interface{}{
		"transaction_id": p.PaymentTransactionID,
		"reference_code": p.PaymentReferenceCode,
		"amount":         float64(amount),
		"status":         status,
		"student_id":     float64(p.PaymentStudentID),
		"billing_id":     float64(p.PaymentBillingID),
	}
	payload["signature"] = SignWebhookPayload(payload, testSecret)
	return payload
}

func initiate(t *testing.T, db *gorm.DB, billingID, amount int, now time.Time) model.Payment {
	t.Helper()
	p, err := InitiatePayment(context.Background(), db, billingID, amount, nil, "vabank", now)
	require.NoError(t, err)
	return p
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := map[string]interface{}{
		"transaction_id": "TXN-1",
		"reference_code": "PAY20250908134530ABCDEF",
		"amount":         float64(2500000),
		"status":         "success",
	}

	t.Run("signature valid", func(t *testing.T) {
		p := map[string]interface{}{}
		for k, v := range payload {
			p[k] = v
		}
		p["signature"] = SignWebhookPayload(payload, testSecret)
		assert.True(t, VerifyWebhookSignature(p, testSecret))
	})

	t.Run("secret salah", func(t *testing.T) {
		p := map[string]interface{}{}
		for k, v := range payload {
			p[k] = v
		}
		p["signature"] = SignWebhookPayload(payload, "secret-lain")
		assert.False(t, VerifyWebhookSignature(p, testSecret))
	})

	t.Run("payload diubah setelah ditandatangani", func(t *testing.T) {
		p := map[string]interface{}{}
		for k, v := range payload {
			p[k] = v
		}
		p["signature"] = SignWebhookPayload(payload, testSecret)
		p["amount"] = float64(9999999)
		assert.False(t, VerifyWebhookSignature(p, testSecret))
	})

	t.Run("tanpa signature", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, testSecret))
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, -7)

	t.Run("signature salah ditolak tanpa mutasi", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)

		payload := signedPayload(&p, "success", 2500000)
		payload["signature"] = "deadbeef"

		_, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.Error(t, err)

		var got billingModel.Billing
		require.NoError(t, db.First(&got, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, got.BillingPaidAmount)

		var recs int64
		require.NoError(t, db.Model(&model.PaymentReconciliation{}).Count(&recs).Error)
		assert.EqualValues(t, 0, recs)
	})

	t.Run("validasi melaporkan semua pelanggaran", func(t *testing.T) {
		db := newTestDB(t)

		payload := map[string]interface{}{
			"status": "unknown",
			"amount": float64(-5),
		}
		payload["signature"] = SignWebhookPayload(map[string]interface{}{
			"status": "unknown",
			"amount": float64(-5),
		}, testSecret)

		_, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 6)
		assert.Contains(t, verr.Fields, "transaction_id is required")
		assert.Contains(t, verr.Fields, "amount must be greater than 0")
		assert.Contains(t, verr.Fields, "status must be one of: success, pending, failed")
	})

	t.Run("reference code tidak dikenal 404", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)

		fake := model.Payment{
			PaymentStudentID:     b.BillingStudentID,
			PaymentBillingID:     b.BillingID,
			PaymentTransactionID: "TXN-GHOST",
			PaymentReferenceCode: "PAY20250908000000FFFFFF",
		}
		payload := signedPayload(&fake, "success", 2500000)

		_, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.Error(t, err)
	})

	t.Run("success menerapkan dana dan konfirmasi payment", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)

		res, err := HandleWebhook(ctx, db, signedPayload(&p, "success", 2500000), testSecret, now)
		require.NoError(t, err)
		assert.False(t, res.AlreadyProcessed)
		assert.Equal(t, p.PaymentID, res.PaymentID)

		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 2500000, gotB.BillingPaidAmount)
		assert.Equal(t, billingModel.BillingStatusPartial, gotB.BillingStatus)

		var gotP model.Payment
		require.NoError(t, db.First(&gotP, "payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.PaymentStatusConfirmed, gotP.PaymentStatus)
		require.NotNil(t, gotP.PaymentConfirmationDate)
		assert.NotEmpty(t, gotP.PaymentGatewayResponse)

		var rec model.PaymentReconciliation
		require.NoError(t, db.First(&rec, "reconciliation_payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.ReconciliationStatusSynced, rec.ReconciliationStatus)
	})

	t.Run("replay menerapkan dana hanya sekali", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)
		payload := signedPayload(&p, "success", 2500000)

		_, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.NoError(t, err)

		res, err := HandleWebhook(ctx, db, payload, testSecret, now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, res.AlreadyProcessed)

		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 2500000, gotB.BillingPaidAmount)

		// tiap attempt tetap tercatat di audit trail
		var recs int64
		require.NoError(t, db.Model(&model.PaymentReconciliation{}).
			Where("reconciliation_payment_id = ?", p.PaymentID).Count(&recs).Error)
		assert.EqualValues(t, 2, recs)
	})

	t.Run("delivery yang disalip pesaing tetap menerapkan dana sekali", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2000000, now)
		payload := signedPayload(&p, "success", 2000000)

		// Delivery kedua "menang balapan": payment dikonfirmasi dan dananya
		// sudah diterapkan SETELAH pembacaan awal tapi SEBELUM transaksi
		// dibuka. Disimulasikan lewat callback query sekali jalan yang
		// menyalip tepat setelah SELECT pertama ke tabel payments.
		overtaken := false
		require.NoError(t, db.Callback().Query().After("gorm:query").Register("rival_delivery", func(d *gorm.DB) {
			if overtaken || d.Statement.Table != "payments" {
				return
			}
			overtaken = true
			require.NoError(t, db.Exec(
				"UPDATE payments SET payment_status = ? WHERE payment_id = ?",
				model.PaymentStatusConfirmed, p.PaymentID).Error)
			require.NoError(t, db.Exec(
				"UPDATE billings SET billing_paid_amount = 2000000, billing_remaining_amount = 3000000, billing_status = ? WHERE billing_id = ?",
				billingModel.BillingStatusPartial, b.BillingID).Error)
		}))

		res, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.NoError(t, err)
		assert.True(t, res.AlreadyProcessed)

		// dana dari pesaing tidak boleh ditumpuk lagi
		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 2000000, gotB.BillingPaidAmount)
		assert.Equal(t, 3000000, gotB.BillingRemainingAmount)

		var gotP model.Payment
		require.NoError(t, db.First(&gotP, "payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.PaymentStatusConfirmed, gotP.PaymentStatus)
	})

	t.Run("gangguan storage saat validasi jadi error, bukan payload valid", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)
		payload := signedPayload(&p, "success", 2500000)

		require.NoError(t, db.Migrator().DropTable(&billingModel.Billing{}))

		_, err := HandleWebhook(ctx, db, payload, testSecret, now)
		require.Error(t, err)

		var verr *ValidationError
		assert.False(t, errors.As(err, &verr))
	})

	t.Run("pending di-ack tanpa mutasi ledger", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)

		res, err := HandleWebhook(ctx, db, signedPayload(&p, "pending", 2500000), testSecret, now)
		require.NoError(t, err)
		assert.Contains(t, res.Message, "pending")

		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, gotB.BillingPaidAmount)

		var gotP model.Payment
		require.NoError(t, db.First(&gotP, "payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.PaymentStatusPending, gotP.PaymentStatus)

		var rec model.PaymentReconciliation
		require.NoError(t, db.First(&rec, "reconciliation_payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.ReconciliationStatusPending, rec.ReconciliationStatus)
	})

	t.Run("failed menandai payment gagal tapi tetap di-ack", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 2500000, now)

		_, err := HandleWebhook(ctx, db, signedPayload(&p, "failed", 2500000), testSecret, now)
		require.NoError(t, err)

		var gotP model.Payment
		require.NoError(t, db.First(&gotP, "payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.PaymentStatusFailed, gotP.PaymentStatus)

		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, gotB.BillingPaidAmount)
	})

	t.Run("success melebihi sisa tagihan gagal dan ditandai failed", func(t *testing.T) {
		db := newTestDB(t)
		b := seedBilling(t, db, 5000000, due)
		p := initiate(t, db, b.BillingID, 6000000, now)

		_, err := HandleWebhook(ctx, db, signedPayload(&p, "success", 6000000), testSecret, now)
		require.Error(t, err)

		var gotB billingModel.Billing
		require.NoError(t, db.First(&gotB, "billing_id = ?", b.BillingID).Error)
		assert.Equal(t, 0, gotB.BillingPaidAmount)

		var gotP model.Payment
		require.NoError(t, db.First(&gotP, "payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.PaymentStatusFailed, gotP.PaymentStatus)

		var rec model.PaymentReconciliation
		require.NoError(t, db.First(&rec, "reconciliation_payment_id = ?", p.PaymentID).Error)
		assert.Equal(t, model.ReconciliationStatusFailed, rec.ReconciliationStatus)
	})
}
