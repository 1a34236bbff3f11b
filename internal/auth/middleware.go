package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// TokenCookie carries the session token issued on login.
const TokenCookie = "dashboard_token"

const principalKey = "auth_principal"

// StateSource exposes the current auth snapshot.
type StateSource interface {
	State() domain.AuthState
}

// AuthMiddleware guards protected subtrees by re-running Authorize on every request.
type AuthMiddleware struct {
	state     StateSource
	tokens    *TokenManager
	bindToken bool
}

// NewAuthMiddleware constructs middleware. When bindToken is set, a request
// only counts as authenticated if it presents a token issued for the live session.
func NewAuthMiddleware(state StateSource, tokens *TokenManager, bindToken bool) *AuthMiddleware {
	return &AuthMiddleware{state: state, tokens: tokens, bindToken: bindToken}
}

// State returns the auth snapshot as seen by this request.
func (m *AuthMiddleware) State(c *fiber.Ctx) domain.AuthState {
	state := m.state.State()
	if !m.bindToken || state.Loading || !state.IsAuthenticated() {
		return state
	}

	raw := requestToken(c)
	if raw == "" || m.tokens == nil {
		return state.WithoutSession()
	}
	claims, err := m.tokens.ParseToken(raw)
	if err != nil || !claims.Matches(state.Session) {
		return state.WithoutSession()
	}
	return state
}

// Require admits the request only when the guard decides to render.
func (m *AuthMiddleware) Require(roles RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := m.State(c)
		decision := Authorize(state, roles)

		switch decision.Action {
		case ActionWait:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "loading"})
		case ActionRedirect:
			return c.Redirect(decision.Location, http.StatusFound)
		default:
			c.Locals(principalKey, state.Session)
			return c.Next()
		}
	}
}

// PrincipalFromContext retrieves the session admitted by Require.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok && session != nil
}

func requestToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(TokenCookie)
}
