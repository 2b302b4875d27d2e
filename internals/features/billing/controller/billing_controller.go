// file: internals/features/billing/controller/billing_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	dto "kampusku_backend/internals/features/billing/dto"
	model "kampusku_backend/internals/features/billing/model"
	service "kampusku_backend/internals/features/billing/service"
	helper "kampusku_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type BillingController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Cfg       configs.BillingConfig
}

func NewBillingController(db *gorm.DB, cfg configs.BillingConfig) *BillingController {
	return &BillingController{
		DB:        db,
		Validator: validator.New(),
		Cfg:       cfg,
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/billings/generate — trigger generate billing per semester (admin)
func (h *BillingController) GenerateBilling(c *fiber.Ctx) error {
	var req dto.GenerateBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	dueDays := h.Cfg.DefaultDueDays
	if req.DueDays != nil {
		dueDays = *req.DueDays
	}

	now := time.Now().UTC()
	res, err := service.GenerateForSemester(c.UserContext(), h.DB, req.SemesterID, dueDays, now)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if res.CreatedCount > 0 {
		if err := service.MarkSemesterGenerated(c.UserContext(), h.DB, req.SemesterID, now); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Generate billing selesai", res)
}

// GET /api/billings?student_id=&status= — list billing
func (h *BillingController) ListBillings(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).Model(&model.Billing{})

	if v := c.QueryInt("student_id"); v > 0 {
		q = q.Where("billing_student_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("billing_status = ?", v)
	}
	if v := c.Query("semester"); v != "" {
		q = q.Where("billing_semester = ?", v)
	}

	var list []model.Billing
	if err := q.Order("billing_created_at DESC").Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.ToBillingResponses(list))
}

// GET /api/billings/:id
func (h *BillingController) GetBilling(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	var m model.Billing
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "billing_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Billing tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.ToBillingResponse(m))
}

// POST /api/billings/:id/penalty — hitung ulang denda satu billing (admin)
func (h *BillingController) RecalcPenalty(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.Billing
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "billing_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Billing tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC()
	if service.ApplyPenalty(&m, h.Cfg.PenaltyPerDay, h.Cfg.MaxPenalty, now) {
		if err := h.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Denda dihitung ulang", fiber.Map{
		"billing": dto.ToBillingResponse(m),
		"penalty": m.BillingPenalty,
	})
}

// GET /api/students/:id/krs-eligibility — gate KRS
func (h *BillingController) KRSEligibility(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	res, err := service.CanRegisterKRS(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, res.Message, res)
}

// GET /api/students/:id/billing-summary
func (h *BillingController) StudentBillingSummary(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	sum, err := service.GetBillingSummary(c.UserContext(), h.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", sum)
}
