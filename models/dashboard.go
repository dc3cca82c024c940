package models

// DashboardStats is the read-only snapshot computed for an event's
// organizer dashboard. Recomputed on every call; nothing here is cached
// or persisted.
type DashboardStats struct {
	TotalRegistrations int     `json:"total_registrations"`
	CheckedInCount     int     `json:"checked_in_count"`
	PendingCount       int     `json:"pending_count"`
	Capacity           int     `json:"capacity"`
	CheckInRate        int     `json:"check_in_rate"` // 0..100
	TotalRevenue       float64 `json:"total_revenue"`
	HoursUntilEvent    int64   `json:"hours_until_event"`
	IsEventToday       bool    `json:"is_event_today"`
	IsEventPast        bool    `json:"is_event_past"`
}

type EventDashboard struct {
	Event Event          `json:"event"`
	Stats DashboardStats `json:"stats"`
}
