package routes

import (
	"courier-booking/controllers/admin"
	"courier-booking/controllers/auth"
	"courier-booking/controllers/shipment"
	"courier-booking/events"
	"courier-booking/logger"
	"courier-booking/middleware"
	"courier-booking/repository"
	authService "courier-booking/services/auth"
	"courier-booking/types"

	"github.com/gofiber/fiber/v2"
)

// Dependencies is everything the HTTP layer needs, built once in main
type Dependencies struct {
	Users     repository.UserRepository
	Shipments repository.ShipmentRepository
	QRCodes   repository.QRCodeRepository

	Hasher *authService.PasswordHasher
	Tokens *authService.TokenIssuer

	Publisher   events.Publisher
	Notifier    events.Notifier
	AsyncLogger *logger.AsyncLogger

	UploadDir    string
	SecureCookie bool
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	authController := auth.NewAuthController(deps.Users, deps.Hasher, deps.Tokens, deps.SecureCookie)
	shipmentController := shipment.NewShipmentController(deps.Users, deps.Shipments, deps.Publisher, deps.Notifier)
	adminController := admin.NewAdminController(deps.Users, deps.Shipments, deps.QRCodes, deps.Publisher, deps.Notifier, deps.UploadDir)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Message: "Courier booking API is running",
			Status:  fiber.StatusOK,
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api", middleware.RequestLogger(deps.AsyncLogger))
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authController.Signup)
	authGroup.Post("/login", authController.Login)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	requireAuth := middleware.RequireAuthentication(deps.Tokens)

	authGroup.Get("/profile", requireAuth, authController.Profile)
	authGroup.Post("/logout", requireAuth, authController.Logout)

	/*=============================================================================
	| Shipment Routes
	===============================================================================*/
	shipmentGroup := api.Group("/shipments", requireAuth)
	shipmentGroup.Get("/", shipmentController.Index)
	shipmentGroup.Post("/", shipmentController.Store)
	shipmentGroup.Get("/:id", shipmentController.Show)
	shipmentGroup.Get("/:id/tracking", shipmentController.Tracking)
	shipmentGroup.Get("/:id/invoice", shipmentController.Invoice)
	shipmentGroup.Get("/:id/invoice.pdf", shipmentController.InvoicePDF)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin", requireAuth)

	// every signed in user can fetch the payment QR, only admins replace it
	adminGroup.Get("/qr_code", adminController.ShowQRCode)
	adminGroup.Post("/qr_code", middleware.RequireAdmin(), adminController.UploadQRCode)

	adminGroup.Get("/shipments", middleware.RequireAdmin(), adminController.Index)
	adminGroup.Put("/shipments/:id/status", middleware.RequireAdmin(), adminController.UpdateStatus)
}
