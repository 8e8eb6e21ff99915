package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/services"
)

// BookingController takes anonymous bookings. The body has already been
// validated by middleware.ValidateBody.
type BookingController struct {
	Bookings *services.BookingService
	Catalog  *pricing.Catalog
}

func (h *BookingController) Create(c *fiber.Ctx) error {
	in := middleware.Body[services.CreateBookingInput](c)
	if in == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing booking details"})
	}

	booking, err := h.Bookings.Create(c.UserContext(), *in)
	if err != nil {
		var unknown *pricing.UnknownServiceError
		if errors.As(err, &unknown) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": unknown.Error()})
		}
		logger.WithCtx(c.UserContext()).Error("failed to create booking", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"bookingId":      booking.ID,
		"estimatedTotal": booking.EstimatedTotal,
	})
}

// ListCatalog returns the price tables shown on the booking form.
func (h *BookingController) ListCatalog(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Listing())
}
