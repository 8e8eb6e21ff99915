package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/services"
)

// SetupPublicRoutes configures the anonymous endpoints: the mechanic
// directory and bookings.
func SetupPublicRoutes(api fiber.Router, d Deps) {
	directory := &controllers.DirectoryController{Directory: d.Directory}
	api.Get("/mechanics", directory.Browse)

	booking := &controllers.BookingController{Bookings: d.Bookings, Catalog: d.Catalog}
	bookings := api.Group("/bookings")
	bookings.Get("/catalog", booking.ListCatalog)
	bookings.Post("/", middleware.ValidateBody[services.CreateBookingInput](), booking.Create)
}
