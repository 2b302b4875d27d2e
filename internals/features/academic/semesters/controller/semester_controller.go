// file: internals/features/academic/semesters/controller/semester_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "kampusku_backend/internals/features/academic/semesters/dto"
	model "kampusku_backend/internals/features/academic/semesters/model"
	helper "kampusku_backend/internals/helpers"
)

type SemesterController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSemesterController(db *gorm.DB) *SemesterController {
	return &SemesterController{DB: db, Validator: validator.New()}
}

// POST /api/semesters (admin)
func (h *SemesterController) Create(c *fiber.Ctx) error {
	var req dto.CreateSemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !req.EndDate.After(req.StartDate) {
		return helper.Error(c, fiber.StatusBadRequest, "end_date harus setelah start_date")
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return helper.Error(c, fiber.StatusConflict, "Nama semester sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Semester dibuat", m)
}

// POST /api/semesters/:id/activate — aktifkan satu, nonaktifkan sisanya (admin)
func (h *SemesterController) Activate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.Semester
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "semester_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Semester tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Semester{}).
			Where("semester_is_active = ?", true).
			Update("semester_is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&m).Update("semester_is_active", true).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Semester diaktifkan", m)
}

// GET /api/semesters
func (h *SemesterController) List(c *fiber.Ctx) error {
	var list []model.Semester
	if err := h.DB.WithContext(c.UserContext()).
		Order("semester_start_date DESC").Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", list)
}
