package models

import (
	"time"
)

const (
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Registration is one ticket: one attendee bound to one event. TicketCode
// is the opaque payload rendered into the QR code and is immutable once
// issued. CheckedIn is a one-way flag; the validator never resets it.
type Registration struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	TicketCode  string     `json:"ticket_code"`
	Status      string     `json:"status"` // confirmed, cancelled
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TicketView joins a registration with its event for the my-tickets page.
type TicketView struct {
	Registration Registration `json:"registration"`
	Event        Event        `json:"event"`
}

// Attendee is one roster row on the organizer's attendee list.
type Attendee struct {
	RegistrationID string     `json:"registration_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	TicketCode     string     `json:"ticket_code"`
	Status         string     `json:"status"`
	CheckedIn      bool       `json:"checked_in"`
	CheckedInAt    *time.Time `json:"checked_in_at,omitempty"`
}

// Check-in outcome codes. Scan failures are expected at the door, so they
// travel as structured results rather than errors.
const (
	CheckInOK        = "checked_in"
	CheckInInvalid   = "invalid_ticket"
	CheckInCancelled = "ticket_cancelled"
	CheckInDuplicate = "already_checked_in"
)

type CheckInResult struct {
	Success      bool          `json:"success"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	Registration *Registration `json:"registration,omitempty"`
}
