package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/models"
	"event-system/services"
)

type RegistrationHandler struct {
	registrations *services.RegistrationService
	users         *services.UserService
}

func NewRegistrationHandler(registrations *services.RegistrationService, users *services.UserService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, users: users}
}

// Register - issue a ticket for the authenticated attendee.
func (h *RegistrationHandler) Register(e *core.RequestEvent) error {
	attendee, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	registration, err := h.registrations.Register(e.Request.Context(), attendee, e.Request.PathValue("eventId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, registration)
}

// Mine - the attendee's tickets with their events, for the my-tickets page.
func (h *RegistrationHandler) Mine(e *core.RequestEvent) error {
	attendee, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	tickets, err := h.registrations.Mine(e.Request.Context(), attendee)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// Cancel - attendee cancels their own ticket. The seat is not returned to
// the pool.
func (h *RegistrationHandler) Cancel(e *core.RequestEvent) error {
	attendee, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	if err := h.registrations.Cancel(e.Request.Context(), attendee, e.Request.PathValue("registrationId")); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Attendees - organizer-only roster for an event.
func (h *RegistrationHandler) Attendees(e *core.RequestEvent) error {
	organizer, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	attendees, err := h.registrations.Attendees(e.Request.Context(), organizer, e.Request.PathValue("eventId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, attendees)
}

func (h *RegistrationHandler) resolveCaller(e *core.RequestEvent) (*models.User, error) {
	identity := identityFromRequest(e)
	if identity == nil {
		return nil, apis.NewUnauthorizedError("Unauthorized", nil)
	}
	user, err := h.users.ResolveOrCreate(e.Request.Context(), identity)
	if err != nil {
		return nil, apiError(err)
	}
	return user, nil
}
