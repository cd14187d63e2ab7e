package admin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"courier-booking/constants"
	"courier-booking/events"
	"courier-booking/logger"
	"courier-booking/middleware"
	"courier-booking/models/asset"
	shipmentModel "courier-booking/models/shipment"
	userModel "courier-booking/models/user"
	"courier-booking/repository"
	"courier-booking/services/tracking"
	"courier-booking/types"
	adminTypes "courier-booking/types/admin"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminController serves the order management panel and the payment QR asset
type AdminController struct {
	Users     repository.UserRepository
	Shipments repository.ShipmentRepository
	QRCodes   repository.QRCodeRepository
	Publisher events.Publisher
	Notifier  events.Notifier
	UploadDir string
}

func NewAdminController(users repository.UserRepository, shipments repository.ShipmentRepository, qrCodes repository.QRCodeRepository, publisher events.Publisher, notifier events.Notifier, uploadDir string) *AdminController {
	return &AdminController{
		Users:     users,
		Shipments: shipments,
		QRCodes:   qrCodes,
		Publisher: publisher,
		Notifier:  notifier,
		UploadDir: uploadDir,
	}
}

func (ac *AdminController) actor(c *fiber.Ctx) (*userModel.User, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}
	u, err := ac.Users.FindByUUID(c.UserContext(), claims.UUID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusUnauthorized,
			})
		}
		logger.Error("Error finding user by UUID", err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return u, nil
}

// Index returns one page of all shipments with optional search, stage and booking date filters
func (ac *AdminController) Index(c *fiber.Ctx) error {
	var query adminTypes.ListShipmentsQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid query parameters",
			Status:  fiber.StatusBadRequest,
		})
	}

	filter, err := query.Filter()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	page, err := ac.Shipments.List(c.UserContext(), filter)
	if err != nil {
		logger.Error("Failed to list shipments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to fetch shipments",
			Status:  fiber.StatusInternalServerError,
		})
	}

	shipments := page.Shipments
	if shipments == nil {
		shipments = []shipmentModel.Shipment{}
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipments fetched successfully",
		Status:  fiber.StatusOK,
		Data: types.ShipmentPage{
			Shipments:   shipments,
			TotalPages:  page.TotalPages(),
			CurrentPage: page.Page,
			TotalCount:  page.TotalCount,
		},
	})
}

// UpdateStatus moves a shipment to a new stage and records the status event
func (ac *AdminController) UpdateStatus(c *fiber.Ctx) error {
	admin, err := ac.actor(c)
	if admin == nil {
		return err
	}

	var req adminTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	ctx := c.UserContext()
	code := c.Params("id")
	current, err := ac.Shipments.FindByCode(ctx, code)
	if err != nil {
		return ac.lookupFailed(c, err)
	}

	event := shipmentModel.ShipmentStatusEvent{
		Stage:     req.Status,
		Location:  req.Location,
		Activity:  req.Activity,
		CreatedBy: admin.ID,
	}
	if event.Location == "" {
		event.Location = tracking.DefaultLocation(req.Status, *current)
	}
	if event.Activity == "" {
		event.Activity = tracking.DefaultActivity(req.Status, *current)
	}

	updated, err := ac.Shipments.UpdateStage(ctx, code, event, admin.Uuid)
	if err != nil {
		if errors.Is(err, shipmentModel.ErrIllegalTransition) {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusConflict,
			})
		}
		return ac.lookupFailed(c, err)
	}

	logger.Success(fmt.Sprintf("Shipment %s moved %s -> %s by %s", code, current.Stage, updated.Stage, admin.Email))

	if err := ac.Publisher.PublishShipmentEvent(ctx, events.ShipmentEvent{
		Type:          events.TypeShipmentStatusChanged,
		ShipmentCode:  updated.Code,
		Stage:         updated.Stage,
		PreviousStage: current.Stage,
		Location:      event.Location,
		Activity:      event.Activity,
		ActorUUID:     admin.Uuid,
		OccurredAt:    updated.UpdatedAt,
	}); err != nil {
		logger.Error("Failed to publish status change for "+updated.Code, err)
	}

	if updated.Stage == shipmentModel.StageDelivered {
		ac.notifyDelivered(c, *updated)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipment status updated successfully",
		Status:  fiber.StatusOK,
		Data:    updated,
	})
}

func (ac *AdminController) notifyDelivered(c *fiber.Ctx, s shipmentModel.Shipment) {
	owner, err := ac.Users.FindByID(c.UserContext(), s.UserID)
	if err != nil {
		logger.Error("Failed to load owner of "+s.Code, err)
		return
	}
	if err := ac.Notifier.Notify(c.UserContext(), events.DeliveryConfirmation(s, *owner)); err != nil {
		logger.Error("Failed to queue delivery confirmation for "+s.Code, err)
	}
}

func (ac *AdminController) lookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "Shipment not found",
			Status:  fiber.StatusNotFound,
		})
	}
	logger.Error("Shipment lookup failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
		Message: "Database error",
		Status:  fiber.StatusInternalServerError,
	})
}

// UploadQRCode stores a new payment QR image. The newest upload replaces the previous one.
func (ac *AdminController) UploadQRCode(c *fiber.Ctx) error {
	admin, err := ac.actor(c)
	if admin == nil {
		return err
	}

	file, err := c.FormFile(constants.QRCodeFormField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "QR code image is required",
			Status:  fiber.StatusBadRequest,
		})
	}
	if file.Size > constants.QRCodeMaxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "File size too large. Maximum size is 5MB",
			Status:  fiber.StatusBadRequest,
		})
	}

	// sniff the content rather than trusting the part header
	src, err := file.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Unreadable upload",
			Status:  fiber.StatusBadRequest,
		})
	}
	detected, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		logger.Error("Failed to detect upload type", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Unreadable upload",
			Status:  fiber.StatusBadRequest,
		})
	}
	mimeType := detected.String()
	ext, allowed := constants.QRCodeMimeTypes[mimeType]
	if !allowed {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid file type. Only PNG, JPEG and WebP images are allowed",
			Status:  fiber.StatusBadRequest,
		})
	}

	uploadDir := filepath.Join(ac.UploadDir, "qr_codes")
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		logger.Error("Failed to create upload directory", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to create upload directory",
			Status:  fiber.StatusInternalServerError,
		})
	}

	filename := uuid.NewString() + ext
	storagePath := filepath.Join(uploadDir, filename)
	if err := c.SaveFile(file, storagePath); err != nil {
		logger.Error("Failed to save uploaded file", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to save uploaded file",
			Status:  fiber.StatusInternalServerError,
		})
	}

	qr := asset.PaymentQRCode{
		FileName:     filename,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		Size:         file.Size,
		StoragePath:  storagePath,
		UploadedBy:   admin.ID,
	}
	if err := ac.QRCodes.Create(c.UserContext(), &qr); err != nil {
		logger.Error("Failed to record QR code upload", err)
		os.Remove(storagePath)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to save QR code",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logger.Success(fmt.Sprintf("Payment QR code %s uploaded by %s", filename, admin.Email))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "QR code uploaded successfully",
		Status:  fiber.StatusCreated,
		Data:    qr,
	})
}

// ShowQRCode returns the active payment QR image bytes
func (ac *AdminController) ShowQRCode(c *fiber.Ctx) error {
	notFound := types.ApiResponse{
		Message: "No QR code uploaded yet",
		Status:  fiber.StatusNotFound,
	}

	qr, err := ac.QRCodes.Latest(c.UserContext())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(notFound)
		}
		logger.Error("Failed to fetch QR code", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	content, err := os.ReadFile(qr.StoragePath)
	if err != nil {
		logger.Warning(fmt.Sprintf("QR code %s recorded but missing on disk: %s", qr.FileName, qr.StoragePath))
		return c.Status(fiber.StatusNotFound).JSON(notFound)
	}

	c.Set(fiber.HeaderContentType, qr.MimeType)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Status(fiber.StatusOK).Send(content)
}
