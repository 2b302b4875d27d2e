// file: internals/features/academic/students/controller/student_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "kampusku_backend/internals/features/academic/students/dto"
	model "kampusku_backend/internals/features/academic/students/model"
	helper "kampusku_backend/internals/helpers"
)

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validator: validator.New()}
}

// POST /api/students (admin)
func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Prodi harus ada — tarif SPP diambil dari sana saat generate billing
	var prodi model.ProgramStudi
	if err := h.DB.WithContext(c.UserContext()).
		First(&prodi, "program_studi_id = ?", req.ProgramStudiID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Program studi tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return helper.Error(c, fiber.StatusConflict, "NIM / email sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mahasiswa terdaftar", m)
}

// GET /api/students?status=
func (h *StudentController) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).Model(&model.Student{})
	if v := c.Query("status"); v != "" {
		q = q.Where("student_status = ?", v)
	}
	var list []model.Student
	if err := q.Order("student_nim ASC").Find(&list).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", list)
}

// GET /api/students/:id
func (h *StudentController) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "invalid id")
	}
	var m model.Student
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", m)
}

// POST /api/program-studi (admin)
func (h *StudentController) CreateProgramStudi(c *fiber.Ctx) error {
	var req dto.CreateProgramStudiRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return helper.Error(c, fiber.StatusConflict, "Nama / kode prodi sudah terdaftar")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Program studi dibuat", m)
}
