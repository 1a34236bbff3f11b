package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/crm-dashboard/internal/api/dto"
	"github.com/spec-kit/crm-dashboard/internal/auth"
	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/service"
	apperrors "github.com/spec-kit/crm-dashboard/pkg/util"
)

// AuthHandler exposes the login view and session endpoints.
type AuthHandler struct {
	sessions     *service.SessionManager
	guard        *auth.AuthMiddleware
	tokens       *auth.TokenManager
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionManager, guard *auth.AuthMiddleware, tokens *auth.TokenManager, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, guard: guard, tokens: tokens, secureCookie: secureCookie}
}

// LoginView handles GET /login. Authenticated callers are sent to their home.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	state := h.guard.State(c)
	if !state.Loading && state.IsAuthenticated() {
		if home := state.Session.Role.HomePath(); home != "" {
			return c.Redirect(home, http.StatusFound)
		}
	}

	roles := domain.Roles()
	return c.JSON(fiber.Map{
		"view":    "login",
		"roles":   roles,
		"loading": state.Loading,
		"error":   state.Error,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	// Form values alias the request buffer, which fasthttp reuses.
	email := utils.CopyString(req.Email)
	role := domain.Role(utils.CopyString(req.Role))

	session, err := h.sessions.Login(c.UserContext(), email, req.Password, role)
	if err != nil {
		return err
	}

	token, exp, err := h.tokens.GenerateToken(session)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session":  session,
			"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
			"redirect": session.Role.HomePath(),
		},
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())

	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"redirect": auth.LoginPath}})
}

// Session handles GET /api/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(h.guard.State(c))})
}
