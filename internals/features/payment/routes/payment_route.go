package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	paymentController "kampusku_backend/internals/features/payment/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

func PaymentRoutes(api fiber.Router, db *gorm.DB, cfg configs.BillingConfig) {
	ctl := paymentController.NewPaymentController(db, cfg)

	pay := api.Group("/payments", authMiddleware.AdminMiddleware())
	pay.Post("/", ctl.ProcessPayment)
	pay.Post("/initiate", ctl.InitiatePayment)
	pay.Get("/stats", ctl.PaymentStats)

	api.Get("/students/:id/payments", authMiddleware.AdminMiddleware(), ctl.PaymentHistory)
}

// WebhookRoutes terpisah dari PaymentRoutes: endpoint gateway TIDAK pakai JWT —
// otentikasinya HMAC signature di dalam handler.
func WebhookRoutes(api fiber.Router, db *gorm.DB, cfg configs.BillingConfig, debug bool) {
	ctl := paymentController.NewWebhookController(db, cfg, debug)

	wh := api.Group("/webhook")
	wh.Post("/payment", ctl.PaymentWebhook)
	wh.Get("/health", ctl.Health)
	wh.Post("/simulate-payment", ctl.SimulatePayment)
	wh.Post("/test-all-students", ctl.TestAllStudents)
}
