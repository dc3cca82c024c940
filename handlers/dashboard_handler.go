package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/services"
)

type DashboardHandler struct {
	dashboards *services.DashboardService
	users      *services.UserService
}

func NewDashboardHandler(dashboards *services.DashboardService, users *services.UserService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, users: users}
}

// EventDashboard - live stats for the organizer's event page.
func (h *DashboardHandler) EventDashboard(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	if identity == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	organizer, err := h.users.ResolveOrCreate(e.Request.Context(), identity)
	if err != nil {
		return apiError(err)
	}

	dashboard, err := h.dashboards.EventDashboard(e.Request.Context(), organizer, e.Request.PathValue("eventId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, dashboard)
}
