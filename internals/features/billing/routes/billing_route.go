package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	billingController "kampusku_backend/internals/features/billing/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

/*
Billing routes.
- /billings/generate & /billings/:id/penalty = admin only
- eligibility & summary dibaca portal mahasiswa → cukup login biasa (di sini
  satu guard JWT yang sama; pemisahan role ada di klaim token)
*/
func BillingRoutes(api fiber.Router, db *gorm.DB, cfg configs.BillingConfig) {
	ctl := billingController.NewBillingController(db, cfg)

	admin := api.Group("/billings", authMiddleware.AdminMiddleware())
	admin.Post("/generate", ctl.GenerateBilling)
	admin.Post("/:id/penalty", ctl.RecalcPenalty)
	admin.Get("/", ctl.ListBillings)
	admin.Get("/:id", ctl.GetBilling)

	students := api.Group("/students", authMiddleware.AdminMiddleware())
	students.Get("/:id/krs-eligibility", ctl.KRSEligibility)
	students.Get("/:id/billing-summary", ctl.StudentBillingSummary)
}
