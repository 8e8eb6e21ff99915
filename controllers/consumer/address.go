package consumer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/services"
)

// AddressController serves the signed-in user's saved addresses.
type AddressController struct {
	Addresses *services.AddressService
}

func (h *AddressController) List(c *fiber.Ctx) error {
	addresses, err := h.Addresses.List(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch addresses")
	}
	return c.JSON(fiber.Map{"addresses": addresses})
}

func (h *AddressController) GetDefault(c *fiber.Ctx) error {
	address, err := h.Addresses.GetDefault(controllers.CurrentUserID(c))
	if err != nil {
		return controllers.Fail(c, err, "Failed to fetch default address")
	}
	return c.JSON(fiber.Map{"address": address})
}

func (h *AddressController) Create(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return controllers.BadRequest(c, "Cannot parse JSON")
	}

	address, err := h.Addresses.Create(controllers.CurrentUserID(c), in)
	if err != nil {
		return controllers.Fail(c, err, "Failed to create address")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Address added successfully",
		"address": address,
	})
}

func (h *AddressController) Update(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrAddressNotFound, "")
	}
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return controllers.BadRequest(c, "Cannot parse JSON")
	}

	address, err := h.Addresses.Update(controllers.CurrentUserID(c), id, in)
	if err != nil {
		return controllers.Fail(c, err, "Failed to update address")
	}
	return c.JSON(fiber.Map{
		"message": "Address updated successfully",
		"address": address,
	})
}

func (h *AddressController) Delete(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrAddressNotFound, "")
	}
	if err := h.Addresses.Delete(controllers.CurrentUserID(c), id); err != nil {
		return controllers.Fail(c, err, "Failed to delete address")
	}
	return c.JSON(fiber.Map{"message": "Address deleted successfully"})
}

func (h *AddressController) SetDefault(c *fiber.Ctx) error {
	id, ok := controllers.ParamID(c, "id")
	if !ok {
		return controllers.Fail(c, services.ErrAddressNotFound, "")
	}
	address, err := h.Addresses.SetDefault(controllers.CurrentUserID(c), id)
	if err != nil {
		return controllers.Fail(c, err, "Failed to set default address")
	}
	return c.JSON(fiber.Map{
		"message": "Default address updated",
		"address": address,
	})
}
