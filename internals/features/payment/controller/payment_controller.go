// file: internals/features/payment/controller/payment_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	billingDTO "kampusku_backend/internals/features/billing/dto"
	dto "kampusku_backend/internals/features/payment/dto"
	service "kampusku_backend/internals/features/payment/service"
	helper "kampusku_backend/internals/helpers"
)

type PaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Cfg       configs.BillingConfig
}

func NewPaymentController(db *gorm.DB, cfg configs.BillingConfig) *PaymentController {
	return &PaymentController{
		DB:        db,
		Validator: validator.New(),
		Cfg:       cfg,
	}
}

// POST /api/payments — catat pembayaran manual (admin)
func (h *PaymentController) ProcessPayment(c *fiber.Ctx) error {
	var req dto.ProcessPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := service.ProcessPayment(c.UserContext(), h.DB,
		req.BillingID, req.Amount, req.PaymentMethodID, req.TransactionID, req.GatewayName,
		time.Now().UTC())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pembayaran berhasil dicatat", fiber.Map{
		"payment": dto.ToPaymentResponse(res.Payment),
		"billing": billingDTO.ToBillingResponse(res.Billing),
	})
}

// POST /api/payments/initiate — buat payment pending utk transaksi gateway
func (h *PaymentController) InitiatePayment(c *fiber.Ctx) error {
	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	payment, err := service.InitiatePayment(c.UserContext(), h.DB,
		req.BillingID, req.Amount, req.PaymentMethodID, req.GatewayName, time.Now().UTC())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment pending dibuat", dto.ToPaymentResponse(payment))
}

// GET /api/students/:id/payments?limit= — riwayat pembayaran
func (h *PaymentController) PaymentHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	limit := c.QueryInt("limit", 10)

	payments, err := service.GetPaymentHistory(c.UserContext(), h.DB, id, limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.ToPaymentResponses(payments))
}

// GET /api/payments/stats?start_date=&end_date= — statistik pembayaran (admin)
func (h *PaymentController) PaymentStats(c *fiber.Ctx) error {
	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			start = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			end = &t
		}
	}

	stats, err := service.GetPaymentStatistics(c.UserContext(), h.DB, start, end)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", stats)
}
