package consumer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/services"
)

type VehicleController struct {
	Vehicles *services.VehicleService
}

func (h *VehicleController) List(c *fiber.Ctx) error {
	vehicles, err := h.Vehicles.List(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch vehicles")
	}
	return c.JSON(fiber.Map{"vehicles": vehicles})
}

func (h *VehicleController) Create(c *fiber.Ctx) error {
	var in services.VehicleInput
	if err := c.BodyParser(&in); err != nil {
		return controllers.BadRequest(c, "Cannot parse JSON")
	}

	vehicle, err := h.Vehicles.Create(controllers.CurrentUserID(c), in)
	if err != nil {
		return controllers.Fail(c, err, "Failed to add vehicle")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Vehicle added successfully",
		"vehicle": vehicle,
	})
}

func (h *VehicleController) Update(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrVehicleNotFound, "")
	}
	var in services.VehicleInput
	if err := c.BodyParser(&in); err != nil {
		return controllers.BadRequest(c, "Cannot parse JSON")
	}

	vehicle, err := h.Vehicles.Update(controllers.CurrentUserID(c), id, in)
	if err != nil {
		return controllers.Fail(c, err, "Failed to update vehicle")
	}
	return c.JSON(fiber.Map{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}

func (h *VehicleController) Delete(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrVehicleNotFound, "")
	}
	if err := h.Vehicles.Delete(controllers.CurrentUserID(c), id); err != nil {
		return controllers.Fail(c, err, "Failed to delete vehicle")
	}
	return c.JSON(fiber.Map{"message": "Vehicle deleted successfully"})
}

func (h *VehicleController) SetPrimary(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrVehicleNotFound, "")
	}
	vehicle, err := h.Vehicles.SetPrimary(controllers.CurrentUserID(c), id)
	if err != nil {
		return controllers.Fail(c, err, "Failed to set primary vehicle")
	}
	return c.JSON(fiber.Map{
		"message": "Primary vehicle updated",
		"vehicle": vehicle,
	})
}
