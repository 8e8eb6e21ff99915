package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers/consumer"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/models"
)

// SetupConsumerRoutes configures all user related routes
func SetupConsumerRoutes(api fiber.Router, d Deps) {
	userOnly := []fiber.Handler{middleware.Protected(d.JWTSecret), middleware.RequireRole(models.RoleUser)}

	addr := &consumer.AddressController{Addresses: d.Addresses}
	addresses := api.Group("/addresses", userOnly...)
	addresses.Get("/", addr.List)
	addresses.Get("/default", addr.GetDefault)
	addresses.Post("/", addr.Create)
	addresses.Put("/:id", addr.Update)
	addresses.Delete("/:id", addr.Delete)
	addresses.Patch("/:id/default", addr.SetDefault)

	veh := &consumer.VehicleController{Vehicles: d.Vehicles}
	vehicles := api.Group("/vehicles", userOnly...)
	vehicles.Get("/", veh.List)
	vehicles.Post("/", veh.Create)
	vehicles.Put("/:id", veh.Update)
	vehicles.Delete("/:id", veh.Delete)
	vehicles.Patch("/:id/primary", veh.SetPrimary)

	req := &consumer.RequestController{Requests: d.Requests}
	requests := api.Group("/requests", userOnly...)
	requests.Post("/", req.Create)
	requests.Get("/mine", req.Mine)
}
