package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	semesterController "kampusku_backend/internals/features/academic/semesters/controller"
	studentController "kampusku_backend/internals/features/academic/students/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

func AcademicRoutes(api fiber.Router, db *gorm.DB) {
	studentCtl := studentController.NewStudentController(db)
	semesterCtl := semesterController.NewSemesterController(db)

	students := api.Group("/students", authMiddleware.AdminMiddleware())
	students.Post("/", studentCtl.Create)
	students.Get("/", studentCtl.List)
	students.Get("/:id", studentCtl.Get)

	api.Post("/program-studi", authMiddleware.AdminMiddleware(), studentCtl.CreateProgramStudi)

	semesters := api.Group("/semesters", authMiddleware.AdminMiddleware())
	semesters.Post("/", semesterCtl.Create)
	semesters.Post("/:id/activate", semesterCtl.Activate)
	semesters.Get("/", semesterCtl.List)
}
