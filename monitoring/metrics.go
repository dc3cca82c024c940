package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_created_total",
			Help: "Events created, by ticket type",
		},
		[]string{"ticket_type"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration outcomes",
		},
		[]string{"status"},
	)

	CheckInAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_attempts_total",
			Help: "Check-in scan outcomes",
		},
		[]string{"outcome"},
	)

	QuotaRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_rejections_total",
			Help: "Event creations rejected by the free-tier quota",
		},
	)

	UpcomingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upcoming_cache_hits_total",
			Help: "Upcoming-events listing served from cache",
		},
	)

	UpcomingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upcoming_cache_misses_total",
			Help: "Upcoming-events listing recomputed from the store",
		},
	)
)
