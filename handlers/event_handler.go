package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/models"
	"event-system/services"
)

type EventHandler struct {
	events *services.EventService
	users  *services.UserService
}

func NewEventHandler(events *services.EventService, users *services.UserService) *EventHandler {
	return &EventHandler{events: events, users: users}
}

// Create - new event for the authenticated organizer.
func (h *EventHandler) Create(e *core.RequestEvent) error {
	organizer, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	var draft models.EventDraft
	if err := e.BindBody(&draft); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.events.Create(e.Request.Context(), organizer, &draft)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, event)
}

// Upcoming - public explore listing, filterable by category and city.
func (h *EventHandler) Upcoming(e *core.RequestEvent) error {
	query := e.Request.URL.Query()
	filter := models.UpcomingFilter{
		Category: query.Get("category"),
		City:     query.Get("city"),
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	events, err := h.events.Upcoming(e.Request.Context(), filter)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, events)
}

// BySlug - public event page lookup.
func (h *EventHandler) BySlug(e *core.RequestEvent) error {
	event, err := h.events.BySlug(e.Request.Context(), e.Request.PathValue("slug"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// Mine - the organizer's own events, newest first. Guests get [].
func (h *EventHandler) Mine(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	var organizer *models.User
	if identity != nil {
		user, err := h.users.CurrentUser(e.Request.Context(), identity.Subject)
		if err != nil {
			return apiError(err)
		}
		organizer = user
	}

	events, err := h.events.Mine(e.Request.Context(), organizer)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, events)
}

// Update - organizer-only partial patch.
func (h *EventHandler) Update(e *core.RequestEvent) error {
	organizer, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	var patch models.EventPatch
	if err := e.BindBody(&patch); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.events.Update(e.Request.Context(), organizer, e.Request.PathValue("eventId"), &patch)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// Delete - organizer-only; cascades to the event's registrations.
func (h *EventHandler) Delete(e *core.RequestEvent) error {
	organizer, err := h.resolveCaller(e)
	if err != nil {
		return err
	}

	if err := h.events.Delete(e.Request.Context(), organizer, e.Request.PathValue("eventId")); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

// resolveCaller maps the auth record to the local user, creating it on
// first contact so a fresh sign-up can immediately create events.
func (h *EventHandler) resolveCaller(e *core.RequestEvent) (*models.User, error) {
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
