package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	academicRoutes "kampusku_backend/internals/features/academic/routes"
	billingRoutes "kampusku_backend/internals/features/billing/routes"
	paymentRoutes "kampusku_backend/internals/features/payment/routes"
)

// SetupRoutes me-mount semua feature route di bawah /api.
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.BillingConfig) {
	api := app.Group("/api")

	academicRoutes.AcademicRoutes(api, db)
	billingRoutes.BillingRoutes(api, db, cfg)
	paymentRoutes.PaymentRoutes(api, db, cfg)
	paymentRoutes.WebhookRoutes(api, db, cfg, configs.AppDebug)
}
