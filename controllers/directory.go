package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/services"
)

type DirectoryController struct {
	Directory *services.DirectoryService
}

// Browse lists approved mechanics. Malformed page or limit values fall back
// to the defaults.
func (h *DirectoryController) Browse(c *fiber.Ctx) error {
	q := services.DirectoryQuery{
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 0),
		City:    c.Query("city"),
		Vehicle: c.Query("vehicle", c.Query("vehicleType")),
		Service: c.Query("service"),
	}

	page, err := h.Directory.Browse(c.UserContext(), q)
	if err != nil {
		return Fail(c, err, "Failed to fetch mechanics")
	}
	return c.JSON(page)
}
