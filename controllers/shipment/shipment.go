package shipment

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"courier-booking/events"
	"courier-booking/logger"
	"courier-booking/middleware"
	shipmentModel "courier-booking/models/shipment"
	userModel "courier-booking/models/user"
	"courier-booking/repository"
	"courier-booking/services/invoice"
	"courier-booking/services/pricing"
	"courier-booking/services/tracking"
	"courier-booking/types"
	shipmentTypes "courier-booking/types/shipment"
	"courier-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// code collisions are retried this many times before giving up
const maxCodeAttempts = 3

// ShipmentController handles customer facing shipment requests
type ShipmentController struct {
	Users     repository.UserRepository
	Shipments repository.ShipmentRepository
	Publisher events.Publisher
	Notifier  events.Notifier
	Now       func() time.Time
}

func NewShipmentController(users repository.UserRepository, shipments repository.ShipmentRepository, publisher events.Publisher, notifier events.Notifier) *ShipmentController {
	return &ShipmentController{
		Users:     users,
		Shipments: shipments,
		Publisher: publisher,
		Notifier:  notifier,
		Now:       time.Now,
	}
}

// currentUser resolves the account behind the verified token
func (sc *ShipmentController) currentUser(c *fiber.Ctx) (*userModel.User, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	u, err := sc.Users.FindByUUID(c.UserContext(), claims.UUID())
	if err != nil {
		status := fiber.StatusInternalServerError
		msg := "Database error"
		if errors.Is(err, repository.ErrNotFound) {
			status = fiber.StatusUnauthorized
			msg = "User not found"
		} else {
			logger.Error("Error finding user by UUID", err)
		}
		return nil, c.Status(status).JSON(types.ApiResponse{
			Message: msg,
			Status:  status,
		})
	}
	return u, nil
}

// findVisible loads a shipment the caller may see. Other users' shipments are reported as missing.
func (sc *ShipmentController) findVisible(c *fiber.Ctx) (*shipmentModel.Shipment, error) {
	u, err := sc.currentUser(c)
	if u == nil {
		return nil, err
	}

	notFound := types.ApiResponse{
		Message: "Shipment not found",
		Status:  fiber.StatusNotFound,
	}

	code := c.Params("id")
	if !utils.IsShipmentCode(code) {
		return nil, c.Status(fiber.StatusNotFound).JSON(notFound)
	}

	s, err := sc.Shipments.FindByCode(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(notFound)
		}
		logger.Error("Failed to fetch shipment", err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
		})
	}
	if s.UserID != u.ID && !u.IsAdmin {
		return nil, c.Status(fiber.StatusNotFound).JSON(notFound)
	}
	return s, nil
}

// Index lists the caller's shipments, newest first
func (sc *ShipmentController) Index(c *fiber.Ctx) error {
	u, err := sc.currentUser(c)
	if u == nil {
		return err
	}

	shipments, err := sc.Shipments.ListByUser(c.UserContext(), u.ID)
	if err != nil {
		logger.Error("Failed to list shipments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to fetch shipments",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipments fetched successfully",
		Status:  fiber.StatusOK,
		Data:    shipments,
	})
}

// Store books a new shipment: validate, price, assign an id and record the Booked event
func (sc *ShipmentController) Store(c *fiber.Ctx) error {
	u, err := sc.currentUser(c)
	if u == nil {
		return err
	}

	var req shipmentTypes.CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	bookedAt := sc.Now()
	if err := req.Validate(bookedAt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	var s shipmentModel.Shipment
	for attempt := 1; ; attempt++ {
		s, err = req.ToShipment(utils.GenerateShipmentCode(), u.ID, bookedAt)
		if err == nil {
			err = pricing.Apply(&s)
		}
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusBadRequest,
			})
		}

		initial := shipmentModel.ShipmentStatusEvent{
			Stage:     shipmentModel.StageBooked,
			Location:  tracking.DefaultLocation(shipmentModel.StageBooked, s),
			Activity:  tracking.DefaultActivity(shipmentModel.StageBooked, s),
			CreatedBy: u.ID,
			CreatedAt: bookedAt,
		}
		err = sc.Shipments.Create(c.UserContext(), &s, initial)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= maxCodeAttempts {
			logger.Error("Failed to create shipment", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Failed to create shipment",
				Status:  fiber.StatusInternalServerError,
			})
		}
		logger.Warning(fmt.Sprintf("Shipment code %s already taken, retrying", s.Code))
	}

	logger.Success(fmt.Sprintf("Shipment %s booked by %s", s.Code, u.Email))

	ctx := c.UserContext()
	if err := sc.Publisher.PublishShipmentEvent(ctx, events.ShipmentEvent{
		Type:         events.TypeShipmentBooked,
		ShipmentCode: s.Code,
		Stage:        s.Stage,
		Location:     tracking.DefaultLocation(shipmentModel.StageBooked, s),
		Activity:     tracking.DefaultActivity(shipmentModel.StageBooked, s),
		ActorUUID:    u.Uuid,
		OccurredAt:   bookedAt,
	}); err != nil {
		logger.Error("Failed to publish booking event for "+s.Code, err)
	}
	if err := sc.Notifier.Notify(ctx, events.BookingConfirmation(s, *u)); err != nil {
		logger.Error("Failed to queue booking confirmation for "+s.Code, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Shipment booked successfully",
		Status:  fiber.StatusCreated,
		Data:    s,
	})
}

func (sc *ShipmentController) Show(c *fiber.Ctx) error {
	s, err := sc.findVisible(c)
	if s == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipment fetched successfully",
		Status:  fiber.StatusOK,
		Data:    s,
	})
}

// Tracking returns the recorded status history as tagged steps
func (sc *ShipmentController) Tracking(c *fiber.Ctx) error {
	s, err := sc.findVisible(c)
	if s == nil {
		return err
	}

	history, err := sc.Shipments.Events(c.UserContext(), s.ID)
	if err != nil {
		logger.Error("Failed to fetch status events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to fetch tracking history",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Tracking history fetched successfully",
		Status:  fiber.StatusOK,
		Data:    tracking.FromEvents(history, s.Stage),
	})
}

func (sc *ShipmentController) Invoice(c *fiber.Ctx) error {
	s, err := sc.findVisible(c)
	if s == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Invoice generated successfully",
		Status:  fiber.StatusOK,
		Data:    invoice.Project(*s),
	})
}

// InvoicePDF streams the invoice as a downloadable PDF
func (sc *ShipmentController) InvoicePDF(c *fiber.Ctx) error {
	s, err := sc.findVisible(c)
	if s == nil {
		return err
	}

	var buf bytes.Buffer
	if err := invoice.RenderPDF(invoice.Project(*s), &buf); err != nil {
		logger.Error("Failed to render invoice pdf for "+s.Code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to render invoice",
			Status:  fiber.StatusInternalServerError,
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, s.Code))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
