package handlers

import (
	"fmt"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookings *services.BookingService
	invoices *services.InvoiceService
}

func NewBookingHandler(bookings *services.BookingService, invoices *services.InvoiceService) *BookingHandler {
	return &BookingHandler{bookings: bookings, invoices: invoices}
}

type CreateBookingRequest struct {
	UserID          string  `json:"userId" validate:"omitempty,uuid"`
	CarID           string  `json:"carId" validate:"required,uuid"`
	StartDate       string  `json:"startDate" validate:"required"`
	EndDate         string  `json:"endDate" validate:"required"`
	PickupLocation  string  `json:"pickupLocation" validate:"required"`
	DropoffLocation string  `json:"dropoffLocation" validate:"required"`
	TotalAmount     float64 `json:"totalAmount" validate:"required,gt=0"`
	SpecialRequests *string `json:"specialRequests"`
}

type UpdateStatusRequest struct {
	Status        *models.BookingStatus `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
}

type CancelRequest struct {
	Reason *string `json:"cancellationReason"`
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	userID := p.UserID
	if req.UserID != "" {
		userID = uuid.MustParse(req.UserID)
		if err := selfOrAdmin(p, userID); err != nil {
			return respondError(c, apperrors.Forbidden("You can only book for yourself"))
		}
	}

	start, err := services.ParseBookingDate(req.StartDate)
	if err != nil {
		return respondError(c, apperrors.Validation(err.Error()))
	}
	end, err := services.ParseBookingDate(req.EndDate)
	if err != nil {
		return respondError(c, apperrors.Validation(err.Error()))
	}

	booking, err := h.bookings.Create(c.UserContext(), services.CreateBookingInput{
		UserID:          userID,
		CarID:           uuid.MustParse(req.CarID),
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// List is the admin view. Supports ?status=, ?paymentStatus=, ?carId= and
// ?userId= filters.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var (
		filter database.BookingFilter
		err    error
	)
	if s := c.Query("status"); s != "" {
		status := models.BookingStatus(s)
		if !status.Valid() {
			return respondError(c, apperrors.Validation(fmt.Sprintf("invalid status %q", s)))
		}
		filter.Statuses = []models.BookingStatus{status}
	}
	if s := c.Query("paymentStatus"); s != "" {
		ps := models.PaymentStatus(s)
		if !ps.Valid() {
			return respondError(c, apperrors.Validation(fmt.Sprintf("invalid paymentStatus %q", s)))
		}
		filter.PaymentStatus = &ps
	}
	if filter.CarID, err = queryID(c, "carId"); err != nil {
		return respondError(c, err)
	}
	if filter.UserID, err = queryID(c, "userId"); err != nil {
		return respondError(c, err)
	}

	bookings, err := h.bookings.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

// owned loads a booking the caller may act on.
func (h *BookingHandler) owned(c *fiber.Ctx) (*models.Booking, error) {
	p, err := principal(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	booking, err := h.bookings.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := selfOrAdmin(p, booking.UserID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	booking, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) ListByUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := selfOrAdmin(p, userID); err != nil {
		return respondError(c, err)
	}
	bookings, err := h.bookings.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) ListByCar(c *fiber.Ctx) error {
	carID, err := paramID(c, "carId")
	if err != nil {
		return respondError(c, err)
	}
	bookings, err := h.bookings.ListByCar(c.UserContext(), carID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	booking, err := h.bookings.UpdateStatus(c.UserContext(), id, req.Status, req.PaymentStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	booking, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CancelRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	booking, err = h.bookings.Cancel(c.UserContext(), booking.ID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Invoice(c *fiber.Ctx) error {
	booking, err := h.owned(c)
	if err != nil {
		return respondError(c, err)
	}

	if c.Query("format") == "html" {
		inv, err := h.invoices.Build(c.UserContext(), booking)
		if err != nil {
			return respondError(c, err)
		}
		page, err := services.RenderInvoiceHTML(inv)
		if err != nil {
			return respondError(c, apperrors.Unexpected("Failed to render invoice", err))
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	}

	pdf, err := h.invoices.PDF(c.UserContext(), booking)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", booking.InvoiceNumber))
	return c.Send(pdf)
}

func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.bookings.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}
