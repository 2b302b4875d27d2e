// file: internals/features/payment/controller/webhook_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	billingModel "kampusku_backend/internals/features/billing/model"
	dto "kampusku_backend/internals/features/payment/dto"
	model "kampusku_backend/internals/features/payment/model"
	service "kampusku_backend/internals/features/payment/service"
	helper "kampusku_backend/internals/helpers"
)

/* =======================================================================
   Webhook gateway pembayaran
   Otentikasi via HMAC signature (bukan JWT) — lihat service.VerifyWebhookSignature.
======================================================================= */

type WebhookController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Cfg       configs.BillingConfig
	Debug     bool // endpoint simulasi hanya hidup saat debug
}

func NewWebhookController(db *gorm.DB, cfg configs.BillingConfig, debug bool) *WebhookController {
	return &WebhookController{
		DB:        db,
		Validator: validator.New(),
		Cfg:       cfg,
		Debug:     debug,
	}
}

// POST /api/webhook/payment — notifikasi dari payment gateway
func (h *WebhookController) PaymentWebhook(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil || len(payload) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Request body is required")
	}

	res, err := service.HandleWebhook(c.UserContext(), h.DB, payload, h.Cfg.WebhookSecret, time.Now().UTC())
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", verr.Fields)
		}
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, res.Message, res)
}

// GET /api/webhook/health — health check untuk payment gateway
func (h *WebhookController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "SPP Payment Webhook Handler",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// POST /api/webhook/simulate-payment — DEVELOPMENT ONLY.
// Bikin konteks payment SIM- lalu kirim webhook success ke diri sendiri.
func (h *WebhookController) SimulatePayment(c *fiber.Ctx) error {
	if !h.Debug {
		return helper.Error(c, fiber.StatusForbidden, "Simulate payment only available in development mode")
	}

	var req dto.SimulatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	method := req.PaymentMethod
	if method == "" {
		method = "simulated"
	}

	now := time.Now().UTC()
	payment := model.Payment{
		PaymentStudentID:     req.StudentID,
		PaymentBillingID:     req.BillingID,
		PaymentTransactionID: service.GenerateTransactionID("SIM"),
		PaymentReferenceCode: service.GenerateSimReferenceCode(now),
		PaymentAmount:        req.Amount,
		PaymentStatus:        model.PaymentStatusPending,
		PaymentGatewayName:   "simulator",
		PaymentDate:          &now,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&payment).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	payload := map[string]interface{}{
		"transaction_id": payment.PaymentTransactionID,
		"reference_code": payment.PaymentReferenceCode,
		"billing_id":     req.BillingID,
		"student_id":     req.StudentID,
		"amount":         req.Amount,
		"status":         "success",
		"payment_method": method,
		"timestamp":      now.Format(time.RFC3339),
	}
	payload["signature"] = service.SignWebhookPayload(payload, h.Cfg.WebhookSecret)

	res, err := service.HandleWebhook(c.UserContext(), h.DB, payload, h.Cfg.WebhookSecret, now)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", verr.Fields)
		}
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, res.Message, fiber.Map{
		"simulated_payload": payload,
		"payment_id":        res.PaymentID,
	})
}

// POST /api/webhook/test-all-students — DEVELOPMENT ONLY.
// Simulasi pembayaran sebagian untuk semua billing unpaid/partial.
func (h *WebhookController) TestAllStudents(c *fiber.Ctx) error {
	if !h.Debug {
		return helper.Error(c, fiber.StatusForbidden, "Test endpoint only available in development mode")
	}

	var req dto.TestAllStudentsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
	}
	pct := req.AmountPercentage
	if pct == 0 {
		pct = 50
	}
	if pct < 1 || pct > 100 {
		return helper.Error(c, fiber.StatusBadRequest, "amount_percentage must be between 1 and 100")
	}

	var pending []billingModel.Billing
	if err := h.DB.WithContext(c.UserContext()).
		Where("billing_status IN ?", []string{billingModel.BillingStatusUnpaid, billingModel.BillingStatusPartial}).
		Find(&pending).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(pending) == 0 {
		return helper.Success(c, "No pending billings to process", fiber.Map{"processed": 0})
	}

	now := time.Now().UTC()
	results := make([]dto.TestAllStudentsItem, 0, len(pending))
	for _, b := range pending {
		amount := b.BillingRemainingAmount * pct / 100
		if amount == 0 {
			continue
		}

		payment := model.Payment{
			PaymentStudentID:     b.BillingStudentID,
			PaymentBillingID:     b.BillingID,
			PaymentTransactionID: service.GenerateTransactionID("TEST"),
			PaymentReferenceCode: service.GenerateTestReferenceCode(b.BillingStudentID, now),
			PaymentAmount:        amount,
			PaymentStatus:        model.PaymentStatusPending,
			PaymentGatewayName:   "simulator",
			PaymentDate:          &now,
		}
		if err := h.DB.WithContext(c.UserContext()).Create(&payment).Error; err != nil {
			results = append(results, dto.TestAllStudentsItem{
				BillingID: b.BillingID, StudentID: b.BillingStudentID, AmountPaid: amount, Success: false,
			})
			continue
		}

		payload := map[string]interface{}{
			"transaction_id": payment.PaymentTransactionID,
			"reference_code": payment.PaymentReferenceCode,
			"billing_id":     b.BillingID,
			"student_id":     b.BillingStudentID,
			"amount":         amount,
			"status":         "success",
			"payment_method": "test_transfer",
			"timestamp":      now.Format(time.RFC3339),
		}
		payload["signature"] = service.SignWebhookPayload(payload, h.Cfg.WebhookSecret)

		_, err := service.HandleWebhook(c.UserContext(), h.DB, payload, h.Cfg.WebhookSecret, now)
		results = append(results, dto.TestAllStudentsItem{
			BillingID: b.BillingID, StudentID: b.BillingStudentID, AmountPaid: amount, Success: err == nil,
		})
	}

	return helper.Success(c, "Test payments processed", fiber.Map{
		"processed": len(results),
		"results":   results,
	})
}
