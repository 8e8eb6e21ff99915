package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/services"
)

// Deps carries everything the route table needs.
type Deps struct {
	// Ctx ends background work started by middleware, such as the
	// rate limiter's sweeper. Nil means it runs for the process lifetime.
	Ctx           context.Context
	JWTSecret     []byte
	SecureCookie  bool
	AuthRateRPS   float64
	AuthRateBurst int
	Catalog       *pricing.Catalog
	Auth          *services.AuthService
	Addresses     *services.AddressService
	Vehicles      *services.VehicleService
	Applications  *services.ApplicationService
	Directory     *services.DirectoryService
	Requests      *services.ServiceRequestService
	Bookings      *services.BookingService
}

// Setup mounts every API route under /api.
func Setup(app *fiber.App, d Deps) {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	api := app.Group("/api")
	SetupAuthRoutes(api, d)
	// Before /mechanic, whose group middleware would also match /mechanics.
	SetupPublicRoutes(api, d)
	SetupConsumerRoutes(api, d)
	SetupMechanicRoutes(api, d)
}
