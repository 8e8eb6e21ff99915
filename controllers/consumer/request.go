package consumer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/services"
)

// RequestController lets a user send and track service requests.
type RequestController struct {
	Requests *services.ServiceRequestService
}

// Create godoc
func (h *RequestController) Create(c *fiber.Ctx) error {
	var in services.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return controllers.BadRequest(c, "Cannot parse JSON")
	}

	req, err := h.Requests.Create(c.UserContext(), controllers.CurrentUserID(c), in)
	if err != nil {
		return controllers.Fail(c, err, "Failed to create service request")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Service request sent successfully",
		"data":    req,
	})
}

func (h *RequestController) Mine(c *fiber.Ctx) error {
	reqs, err := h.Requests.ListForUser(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch service requests")
	}
	return c.JSON(fiber.Map{"data": reqs})
}
