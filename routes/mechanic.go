package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers/mechanic"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/models"
)

// SetupMechanicRoutes configures the mechanic's application, inbox and
// dashboard.
func SetupMechanicRoutes(api fiber.Router, d Deps) {
	group := api.Group("/mechanic", middleware.Protected(d.JWTSecret), middleware.RequireRole(models.RoleMechanic))

	app := &mechanic.ApplicationController{Applications: d.Applications}
	group.Post("/application", app.Submit)
	group.Get("/application", app.GetMine)
	group.Put("/application", app.Update)
	group.Get("/application/status", app.Status)

	req := &mechanic.RequestController{Requests: d.Requests}
	group.Get("/dashboard", req.Dashboard)
	group.Get("/requests", req.List)
	group.Patch("/requests/:id/accept", req.Accept)
	group.Patch("/requests/:id/reject", req.Reject)
	group.Patch("/requests/:id/start", req.Start)
	group.Patch("/requests/:id/complete", req.Complete)
}
