package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopflow/internal/middleware"
	"shopflow/internal/service"
)

// CookieConfig describes the session cookie set on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	cookie      CookieConfig
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, cookie: cookie}
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSession(c, response.Token, response.ExpiresAt)
	return okMessage(c, response, "Login successful")
}

// Register creates a regular account and signs it in
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setSession(c, response.Token, response.ExpiresAt)
	return created(c, response, "Account created")
}

// Logout clears the session cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return okMessage(c, nil, "Logged out")
}

type validateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken checks a token from the body, the Authorization header or the cookie
// POST /api/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req validateTokenRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	token := req.Token
	if token == "" {
		token = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		token = c.Cookies(h.cookie.Name)
	}

	user, claims, err := h.authService.ValidateToken(c.UserContext(), token)
	if err != nil {
		return err
	}

	return ok(c, fiber.Map{
		"valid":      true,
		"user":       user.ToResponse(),
		"expires_at": claims.ExpiresAt.Time,
	})
}

// Me returns the signed-in account
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.ActorFrom(c).ID)
	if err != nil {
		return err
	}
	return ok(c, user.ToResponse())
}

// ChangePassword handles password change for the signed-in account
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordInput
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), middleware.ActorFrom(c).ID, req); err != nil {
		return err
	}
	return okMessage(c, nil, "Password updated successfully")
}

// Users lists accounts for the auth screens
// GET /api/auth/users
func (h *AuthHandler) Users(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, userResponses(users))
}
