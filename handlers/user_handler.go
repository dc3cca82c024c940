package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/models"
	"event-system/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Sync - upsert the local user record from the verified identity. Called
// by the frontend right after sign-in.
func (h *UserHandler) Sync(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	if identity == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	user, err := h.users.ResolveOrCreate(e.Request.Context(), identity)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// Me - current user profile, null when the subject was never synced.
func (h *UserHandler) Me(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	if identity == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	user, err := h.users.CurrentUser(e.Request.Context(), identity.Subject)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// CompleteOnboarding - store attendee location and interests.
func (h *UserHandler) CompleteOnboarding(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	if identity == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.OnboardingRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	user, err := h.users.CompleteOnboarding(e.Request.Context(), identity.Subject, &req)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// UpdateOrganizerProfile - bio, website and social links.
func (h *UserHandler) UpdateOrganizerProfile(e *core.RequestEvent) error {
	identity := identityFromRequest(e)
	if identity == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.OrganizerProfile
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	user, err := h.users.UpdateOrganizerProfile(e.Request.Context(), identity.Subject, &req)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}
