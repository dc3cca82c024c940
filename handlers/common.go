package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/internal/status"
	"event-system/models"
)

// identityFromRequest lifts the platform-verified auth record into the
// identity assertion the services consume. Returns nil for guests.
func identityFromRequest(e *core.RequestEvent) *models.Identity {
	if e.Auth == nil {
		return nil
	}
	return &models.Identity{
		Subject:   e.Auth.Id,
		Name:      e.Auth.GetString("name"),
		Email:     e.Auth.Email(),
		AvatarURL: e.Auth.GetString("avatar"),
	}
}

// apiError maps service errors onto HTTP responses. Quota, capacity and
// duplicate failures are conflicts the UI is expected to explain; the
// rest follow the usual auth/not-found mapping.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrUnauthenticated):
		return apis.NewUnauthorizedError("Not authenticated", err)
	case errors.Is(err, status.ErrForbidden):
		return apis.NewForbiddenError("You are not authorized to perform this action", err)
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError("Not found", err)
	case errors.Is(err, status.ErrQuotaExceeded):
		return apis.NewApiError(http.StatusConflict, "Free event limit reached. Please upgrade to create more events.", err)
	case errors.Is(err, status.ErrCapacityExceeded):
		return apis.NewApiError(http.StatusConflict, "Event is sold out", err)
	case errors.Is(err, status.ErrDuplicateRegistration):
		return apis.NewApiError(http.StatusConflict, "You are already registered for this event", err)
	case errors.Is(err, status.ErrAlreadyCheckedIn):
		return apis.NewApiError(http.StatusConflict, "Ticket was already used at the door", err)
	default:
		return apis.NewBadRequestError("Request failed", err)
	}
}
