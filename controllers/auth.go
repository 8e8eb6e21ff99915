package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/services"
)

const tokenCookie = "token"

// AuthController serves the account endpoints. Every handler is bound to one
// role, so users and mechanics share the same code.
type AuthController struct {
	Auth         *services.AuthService
	SecureCookie bool
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetInput struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthController) setTokenCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register handles account registration
func (h *AuthController) Register(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in services.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return BadRequest(c, "Cannot parse JSON")
		}

		profile, err := h.Auth.Register(c.UserContext(), role, in)
		if err != nil {
			return Fail(c, err, "Failed to register account")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Registration successful, please verify your email",
			"user":    profile,
		})
	}
}

func (h *AuthController) VerifyEmail(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			var body struct {
				Token string `json:"token"`
			}
			_ = c.BodyParser(&body)
			token = body.Token
		}

		profile, err := h.Auth.VerifyEmail(role, token)
		if err != nil {
			return Fail(c, err, "Failed to verify email")
		}
		return c.JSON(fiber.Map{
			"message": "Email verified successfully",
			"user":    profile,
		})
	}
}

// Login handles authentication and sets the token cookie
func (h *AuthController) Login(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginInput
		if err := c.BodyParser(&in); err != nil {
			return BadRequest(c, "Cannot parse JSON")
		}

		session, err := h.Auth.Login(role, in.Email, in.Password)
		if err != nil {
			return Fail(c, err, "Failed to log in")
		}
		h.setTokenCookie(c, session.Token, session.ExpiresAt)
		return c.JSON(session)
	}
}

// ForgotPassword always answers 200 so callers cannot probe which emails
// are registered.
func (h *AuthController) ForgotPassword(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in struct {
			Email string `json:"email"`
		}
		if err := c.BodyParser(&in); err != nil {
			return BadRequest(c, "Cannot parse JSON")
		}

		if err := h.Auth.ForgotPassword(c.UserContext(), role, in.Email); err != nil {
			logger.WithCtx(c.UserContext()).Error("forgot password failed", "role", role, "error", err)
		}
		return c.JSON(fiber.Map{
			"message": "If an account exists for this email, an OTP has been sent",
		})
	}
}

func (h *AuthController) ResetPassword(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in resetInput
		if err := c.BodyParser(&in); err != nil {
			return BadRequest(c, "Cannot parse JSON")
		}

		if err := h.Auth.ResetPassword(c.UserContext(), role, in.Email, in.OTP, in.NewPassword); err != nil {
			return Fail(c, err, "Failed to reset password")
		}
		return c.JSON(fiber.Map{"message": "Password reset successfully"})
	}
}

// Me returns the current account's profile
func (h *AuthController) Me(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	profile, err := h.Auth.Me(models.Role(role), CurrentUserID(c))
	if err != nil {
		return Fail(c, err, "Failed to fetch profile")
	}
	return c.JSON(fiber.Map{"user": profile})
}

// Refresh issues a new token for a still-valid session.
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	token, expires, err := h.Auth.IssueToken(CurrentUserID(c), models.Role(role))
	if err != nil {
		return Fail(c, err, "Failed to generate token")
	}
	h.setTokenCookie(c, token, expires)
	return c.JSON(fiber.Map{
		"token":     token,
		"expiresAt": expires,
	})
}

// Logout clears the cookie. Tokens are stateless, so a copy held elsewhere
// stays valid until it expires.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	c.ClearCookie(tokenCookie)
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}
