package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	billingModel "kampusku_backend/internals/features/billing/model"
	ledger "kampusku_backend/internals/features/billing/service"
	model "kampusku_backend/internals/features/payment/model"
)

/* =======================================================================
   Webhook reconciler
   Mencocokkan notifikasi gateway → payment internal (by reference_code),
   menerapkan hasilnya idempoten, dan mencatat audit trail rekonsiliasi.
======================================================================= */

var webhookValidStatuses = map[string]bool{
	"success": true,
	"pending": true,
	"failed":  true,
}

// ValidationError membawa SEMUA field yang melanggar, bukan cuma yang pertama.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// WebhookResult = hasil pemrosesan satu delivery webhook.
type WebhookResult struct {
	PaymentID        int    `json:"payment_id"`
	Message          string `json:"message"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
}

// VerifyWebhookSignature menghitung HMAC-SHA256 atas serialisasi kanonik
// payload (tanpa field signature; json.Marshal map = key terurut) dan
// membandingkannya constant-time dengan signature kiriman.
func VerifyWebhookSignature(payload map[string]interface{}, secret string) bool {
	sig, ok := payload["signature"].(string)
	if !ok || sig == "" {
		return false
	}

	rest := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "signature" {
			continue
		}
		rest[k] = v
	}

	body, err := json.Marshal(rest)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(sig), []byte(expected))
}

// SignWebhookPayload membuat signature valid untuk payload (tanpa field
// signature) — dipakai jalur simulasi dan test.
func SignWebhookPayload(payload map[string]interface{}, secret string) string {
	body, _ := json.Marshal(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// HandleWebhook memproses notifikasi pembayaran dari gateway.
//
//  1. Verifikasi signature → 401 bila mismatch/absen.
//  2. Validasi field (semua pelanggaran dilist) → *ValidationError.
//  3. Cari payment by reference_code → 404 bila tidak ada. Webhook TIDAK
//     pernah membuat payment baru; konteksnya dibuat lebih dulu oleh
//     InitiatePayment (atau jalur simulasi).
//  4. Replay guard: payment yang sudah confirmed di-ack "already processed"
//     tanpa mutasi ledger — dua delivery success untuk reference_code yang
//     sama hanya menambah dana SEKALI.
//  5. success → confirm + apply ke billing (satu transaksi); failed → tandai
//     gagal (ack, bukan error); pending → ack saja.
//
// Tiap attempt dicatat sebagai baris payment_reconciliations (append-only).
func HandleWebhook(ctx context.Context, db *gorm.DB, payload map[string]interface{}, secret string, now time.Time) (WebhookResult, error) {
	var res WebhookResult

	if !VerifyWebhookSignature(payload, secret) {
		log.Println("[WARNING] Webhook signature verification failed")
		return res, fiber.NewError(fiber.StatusUnauthorized, "Webhook signature verification failed")
	}

	verr, err := validateWebhookPayload(ctx, db, payload)
	if err != nil {
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if verr != nil {
		log.Printf("[WARNING] Webhook validation failed: %v", verr.Fields)
		return res, verr
	}

	referenceCode, _ := payload["reference_code"].(string)
	transactionID, _ := payload["transaction_id"].(string)
	status, _ := payload["status"].(string)
	amount := payloadAmount(payload)

	var payment model.Payment
	if err := db.WithContext(ctx).
		First(&payment, "payment_reference_code = ?", referenceCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fiber.NewError(fiber.StatusNotFound, "Payment tidak ditemukan")
		}
		return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	res.PaymentID = payment.PaymentID

	rawPayload, _ := json.Marshal(payload)

	// Replay guard fast path — keputusan final ada di dalam transaksi success,
	// di sini hanya memotong round-trip untuk kasus jelas.
	if payment.IsConfirmed() {
		res.AlreadyProcessed = true
		res.Message = "Webhook already processed"
		appendReconciliation(ctx, db, &payment, model.ReconciliationStatusSynced, rawPayload,
			"duplicate delivery — payment sudah confirmed, diabaikan")
		return res, nil
	}

	gatewayName := payment.PaymentGatewayName
	if gatewayName == "" {
		gatewayName = "webhook"
	}

	switch status {
	case "success":
		alreadyProcessed := false
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Guard replay dicek ULANG di sini dengan payment ter-lock:
			// pemeriksaan di luar transaksi saja bisa disalip delivery paralel —
			// dua-duanya lihat pending, dua-duanya menerapkan dana.
			if err := lockForUpdate(tx).
				First(&payment, "payment_id = ?", payment.PaymentID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			if payment.IsConfirmed() {
				alreadyProcessed = true
				return nil
			}

			var billing billingModel.Billing
			if err := lockForUpdate(tx).
				First(&billing, "billing_id = ?", payment.PaymentBillingID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			if err := ledger.ApplyPayment(&billing, amount, now); err != nil {
				return err
			}
			if err := tx.Save(&billing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}

			payment.PaymentStatus = model.PaymentStatusConfirmed
			payment.PaymentConfirmationDate = &now
			payment.PaymentAmount = amount
			payment.PaymentTransactionID = transactionID
			payment.PaymentGatewayResponse = datatypes.JSON(rawPayload)
			return tx.Save(&payment).Error
		})
		if err != nil {
			// Aplikasi dana gagal → payment ditandai failed, error diteruskan.
			payment.PaymentStatus = model.PaymentStatusFailed
			payment.PaymentGatewayResponse = datatypes.JSON(rawPayload)
			if serr := db.WithContext(ctx).Save(&payment).Error; serr != nil {
				log.Printf("[ERROR] gagal menandai payment failed: %v", serr)
			}
			appendReconciliation(ctx, db, &payment, model.ReconciliationStatusFailed, rawPayload, err.Error())
			return res, err
		}
		if alreadyProcessed {
			res.AlreadyProcessed = true
			res.Message = "Webhook already processed"
			appendReconciliation(ctx, db, &payment, model.ReconciliationStatusSynced, rawPayload,
				"duplicate delivery — payment sudah confirmed, diabaikan")
			return res, nil
		}
		appendReconciliation(ctx, db, &payment, model.ReconciliationStatusSynced, rawPayload, "")
		res.Message = "Webhook processed successfully"

	case "failed":
		// Outcome bisnis terminal tapi bukan error — webhook tetap di-ack.
		payment.PaymentStatus = model.PaymentStatusFailed
		payment.PaymentGatewayResponse = datatypes.JSON(rawPayload)
		if err := db.WithContext(ctx).Save(&payment).Error; err != nil {
			return res, fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		appendReconciliation(ctx, db, &payment, model.ReconciliationStatusSynced, rawPayload, "gateway melaporkan pembayaran gagal")
		res.Message = "Payment marked as failed"

	case "pending":
		// Ack saja — dana TIDAK diterapkan.
		appendReconciliation(ctx, db, &payment, model.ReconciliationStatusPending, rawPayload, "")
		res.Message = "Webhook acknowledged (pending)"
	}

	log.Printf("[WEBHOOK] processed %s: %s", referenceCode, status)
	return res, nil
}

func validateWebhookPayload(ctx context.Context, db *gorm.DB, payload map[string]interface{}) (*ValidationError, error) {
	var fields []string

	if s, _ := payload["transaction_id"].(string); s == "" {
		fields = append(fields, "transaction_id is required")
	}
	if s, _ := payload["reference_code"].(string); s == "" {
		fields = append(fields, "reference_code is required")
	}
	if _, ok := payload["amount"]; !ok {
		fields = append(fields, "amount is required")
	} else if payloadAmount(payload) <= 0 {
		fields = append(fields, "amount must be greater than 0")
	}
	if s, _ := payload["status"].(string); !webhookValidStatuses[s] {
		fields = append(fields, "status must be one of: success, pending, failed")
	}
	if _, ok := payload["student_id"]; !ok {
		fields = append(fields, "student_id is required")
	}
	if _, ok := payload["billing_id"]; !ok {
		fields = append(fields, "billing_id is required")
	} else {
		billingID := payloadInt(payload, "billing_id")
		var cnt int64
		if err := db.WithContext(ctx).Model(&billingModel.Billing{}).
			Where("billing_id = ?", billingID).Count(&cnt).Error; err != nil {
			// gangguan storage bukan payload invalid — jangan disamarkan
			return nil, err
		} else if cnt == 0 {
			fields = append(fields, fmt.Sprintf("billing_id %d not found", billingID))
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}, nil
	}
	return nil, nil
}

func appendReconciliation(ctx context.Context, db *gorm.DB, p *model.Payment, status string, rawPayload []byte, note string) {
	gw := p.PaymentGatewayName
	if gw == "" {
		gw = "webhook"
	}
	rec := model.PaymentReconciliation{
		ReconciliationPaymentID:   p.PaymentID,
		ReconciliationGatewayName: gw,
		ReconciliationStatus:      status,
		ReconciliationResponse:    datatypes.JSON(rawPayload),
	}
	if note != "" {
		rec.ReconciliationNotes = &note
	}
	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		// audit gagal jangan menggagalkan webhook — cukup dicatat
		log.Printf("[ERROR] gagal mencatat reconciliation payment %d: %v", p.PaymentID, err)
	}
}

// JSON number dari sonic/encoding-json datang sebagai float64.
func payloadAmount(payload map[string]interface{}) int {
	switch v := payload["amount"].(type) {
	case float64:
		return int(v + 0.5)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

func payloadInt(payload map[string]interface{}, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}
