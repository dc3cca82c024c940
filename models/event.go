package models

import (
	"time"
)

const (
	LocationPhysical = "physical"
	LocationOnline   = "online"

	TicketFree = "free"
	TicketPaid = "paid"
)

// Event timestamps (StartDate, EndDate) are epoch milliseconds, matching
// the wire format the frontend renders from. EndDate > StartDate.
type Event struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Tags              []string  `json:"tags"`
	StartDate         int64     `json:"start_date"`
	EndDate           int64     `json:"end_date"`
	Timezone          string    `json:"timezone"`
	LocationType      string    `json:"location_type"` // physical, online
	Venue             string    `json:"venue,omitempty"`
	Address           string    `json:"address,omitempty"`
	City              string    `json:"city"`
	State             string    `json:"state,omitempty"`
	Country           string    `json:"country"`
	OnlineLink        string    `json:"online_link,omitempty"`
	Capacity          int       `json:"capacity"`
	TicketType        string    `json:"ticket_type"` // free, paid
	TicketPrice       float64   `json:"ticket_price,omitempty"`
	CoverImage        string    `json:"cover_image,omitempty"`
	ThemeColor        string    `json:"theme_color,omitempty"`
	Slug              string    `json:"slug"`
	OrganizerID       string    `json:"organizer_id"`
	OrganizerName     string    `json:"organizer_name"`
	RegistrationCount int       `json:"registration_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsFull reports whether the event has no remaining capacity.
func (e *Event) IsFull() bool {
	return e.RegistrationCount >= e.Capacity
}

// EventDraft is the payload for creating a new event.
type EventDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	StartDate    int64    `json:"start_date"`
	EndDate      int64    `json:"end_date"`
	Timezone     string   `json:"timezone"`
	LocationType string   `json:"location_type"`
	Venue        string   `json:"venue"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	OnlineLink   string   `json:"online_link"`
	Capacity     int      `json:"capacity"`
	TicketType   string   `json:"ticket_type"`
	TicketPrice  float64  `json:"ticket_price"`
	CoverImage   string   `json:"cover_image"`
	ThemeColor   string   `json:"theme_color"`
}

// EventPatch is a partial update; nil fields are left untouched.
type EventPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	StartDate   *int64  `json:"start_date,omitempty"`
	EndDate     *int64  `json:"end_date,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
	ThemeColor  *string `json:"theme_color,omitempty"`
}

// UpcomingFilter narrows the public upcoming-events listing.
type UpcomingFilter struct {
	Category string `json:"category,omitempty"`
	City     string `json:"city,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}
