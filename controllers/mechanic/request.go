package mechanic

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/services"
)

// RequestController drives the mechanic side of service requests.
type RequestController struct {
	Requests *services.ServiceRequestService
}

type transitionFunc func(ctx context.Context, mechanicID, requestID uint) (*services.RequestView, error)

func (h *RequestController) List(c *fiber.Ctx) error {
	reqs, err := h.Requests.ListForMechanic(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch service requests")
	}
	return c.JSON(fiber.Map{"data": reqs})
}

func (h *RequestController) Dashboard(c *fiber.Ctx) error {
	dash, err := h.Requests.Dashboard(c.UserContext(), controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to load dashboard")
	}
	return c.JSON(dash)
}

func (h *RequestController) Accept(c *fiber.Ctx) error {
	return h.transition(c, h.Requests.Accept, "Request accepted")
}

func (h *RequestController) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.Requests.Reject, "Request rejected")
}

func (h *RequestController) Start(c *fiber.Ctx) error {
	return h.transition(c, h.Requests.Start, "Service started")
}

func (h *RequestController) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.Requests.Complete, "Service completed")
}

func (h *RequestController) transition(c *fiber.Ctx, fn transitionFunc, message string) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrRequestNotFound, "")
	}
	req, err := fn(c.UserContext(), controllers.CurrentUserID(c), id)
	if err != nil {
		return controllers.Fail(c, err, "Failed to update service request")
	}
	return c.JSON(fiber.Map{
		"message": message,
		"data":    req,
	})
}
