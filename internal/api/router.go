package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vitalsalud/agenda/internal/agenda"
	"github.com/vitalsalud/agenda/internal/booking"
	"github.com/vitalsalud/agenda/internal/upstream"
)

type RouterConfig struct {
	Service  *agenda.Service
	Drafts   *booking.DraftStore
	Upstream *upstream.Client
	Redis    *redis.Client
	Logger   zerolog.Logger
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Upstream, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Calendar feeds
	r.Get("/calendar/slots", scheduleEventsHandler(cfg.Service))
	r.Get("/calendar/slots.ics", scheduleICSHandler(cfg.Service))
	r.Get("/calendar/appointments", appointmentEventsHandler(cfg.Service))

	// Reference data
	r.Get("/doctors", doctorOptionsHandler(cfg.Service))
	r.Get("/specialties", specialtiesHandler(cfg.Service))

	// Booking flow
	r.Get("/booking/doctors", bookingDoctorsHandler(cfg.Service))
	r.Get("/booking/draft/{session}", getDraftHandler(cfg.Drafts))
	r.Put("/booking/draft/{session}", putDraftHandler(cfg.Drafts))
	r.Delete("/booking/draft/{session}", deleteDraftHandler(cfg.Drafts))

	// Payment redirect landing
	r.Get("/payments/callback", paymentCallbackHandler())

	// Cache management
	r.Post("/cache/clear", clearCacheHandler(cfg.Service))

	return r
}
