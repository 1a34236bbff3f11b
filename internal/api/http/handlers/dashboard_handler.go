package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-dashboard/internal/auth"
	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/service"
	apperrors "github.com/spec-kit/crm-dashboard/pkg/util"
)

const adminFeedSize = 5

// DashboardHandler renders the protected persona views.
type DashboardHandler struct {
	dashboards *service.DashboardService
	audit      *service.AuditService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService, audit *service.AuditService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, audit: audit}
}

// Home handles GET /{role}.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	body := fiber.Map{
		"view":  string(session.Role) + "-home",
		"user":  session,
		"stats": h.dashboards.Overview(session.Role),
	}
	if session.Role == domain.RoleAdmin && h.audit != nil {
		body["notifications"] = h.audit.Recent(adminFeedSize)
	}
	return c.JSON(fiber.Map{"data": body})
}

// Messages handles GET /{role}/messages.
func (h *DashboardHandler) Messages(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"view":  "messages",
		"board": h.dashboards.Messages(session.Role),
	}})
}

// Settings handles GET /{role}/settings.
func (h *DashboardHandler) Settings(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"view":     "settings",
		"settings": h.dashboards.Settings(*session),
	}})
}

// NotFound renders the not-found view for unmatched paths.
func NotFound(c *fiber.Ctx) error {
	return apperrors.NewNotFound("page", map[string]any{"path": c.Path()})
}

// principal returns the session admitted by the guard. Views reached
// without one are outside every protected area.
func principal(c *fiber.Ctx) (*domain.Session, error) {
	session, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewNotFound("page", map[string]any{"path": c.Path()})
	}
	return session, nil
}
