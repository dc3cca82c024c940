package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"event-system/services"
)

type CheckInHandler struct {
	checkins *services.CheckInService
}

func NewCheckInHandler(checkins *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkins: checkins}
}

// CheckIn - validate a scanned (or hand-typed) ticket code. Always 200
// with a structured result; a bad scan is a normal outcome at the door,
// not an API error.
func (h *CheckInHandler) CheckIn(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		QRCode string `json:"qr_code"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ticketCode := strings.TrimSpace(req.QRCode)
	if ticketCode == "" {
		return apis.NewBadRequestError("qr_code is required", nil)
	}

	result, err := h.checkins.CheckIn(e.Request.Context(), ticketCode)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, result)
}
