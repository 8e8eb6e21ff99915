package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/controllers"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/models"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router, d Deps) {
	h := &controllers.AuthController{Auth: d.Auth, SecureCookie: d.SecureCookie}
	auth := api.Group("/auth", middleware.RateLimit(d.Ctx, d.AuthRateRPS, d.AuthRateBurst))

	for _, role := range []models.Role{models.RoleUser, models.RoleMechanic} {
		g := auth.Group("/" + string(role))
		g.Post("/register", h.Register(role))
		g.Get("/verify-email", h.VerifyEmail(role))
		g.Post("/verify-email", h.VerifyEmail(role))
		g.Post("/login", h.Login(role))
		g.Post("/forgot-password", h.ForgotPassword(role))
		g.Post("/reset-password", h.ResetPassword(role))
	}

	// Protected routes
	auth.Get("/me", middleware.Protected(d.JWTSecret), h.Me)
	auth.Post("/refresh", middleware.Protected(d.JWTSecret), h.Refresh)
	auth.Post("/logout", h.Logout)
}
