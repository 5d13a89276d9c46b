// Package agenda ties the upstream client, the query caches and the
// calendar derivation together into the feeds the HTTP surface serves.
package agenda

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitalsalud/agenda/internal/calendar"
	"github.com/vitalsalud/agenda/internal/clinic"
	"github.com/vitalsalud/agenda/internal/localtime"
	"github.com/vitalsalud/agenda/internal/querycache"
	"github.com/vitalsalud/agenda/internal/upstream"
)

type Service struct {
	up          *upstream.Client
	slots       *querycache.Cache[clinic.Slot]
	doctors     *querycache.Cache[clinic.Doctor]
	specialties *querycache.Cache[clinic.Specialty]
	builder     calendar.Builder
	now         func() time.Time
	log         zerolog.Logger
}

func New(up *upstream.Client, ttl time.Duration, logger zerolog.Logger) *Service {
	s := &Service{
		up:      up,
		builder: calendar.NewBuilder(),
		now:     time.Now,
		log:     logger,
	}
	s.slots = querycache.New(ttl, func(ctx context.Context, params map[string]string) ([]clinic.Slot, error) {
		return up.Slots(ctx, upstream.SlotQueryFromParams(params))
	})
	s.doctors = querycache.New(ttl, func(ctx context.Context, _ map[string]string) ([]clinic.Doctor, error) {
		return up.Doctors(ctx)
	})
	s.specialties = querycache.New(ttl, func(ctx context.Context, _ map[string]string) ([]clinic.Specialty, error) {
		return up.ActiveSpecialties(ctx)
	})
	return s
}

// LoadSlots goes through the TTL cache; the Result tells fresh data from a
// stale fallback.
func (s *Service) LoadSlots(ctx context.Context, q upstream.SlotQuery, forceRefresh bool) (querycache.Result[clinic.Slot], error) {
	return s.slots.Load(ctx, q.Params(), forceRefresh)
}

func (s *Service) LoadDoctors(ctx context.Context, forceRefresh bool) (querycache.Result[clinic.Doctor], error) {
	return s.doctors.Load(ctx, nil, forceRefresh)
}

func (s *Service) LoadSpecialties(ctx context.Context, forceRefresh bool) (querycache.Result[clinic.Specialty], error) {
	return s.specialties.Load(ctx, nil, forceRefresh)
}

// ClearCaches drops every cached query, used on logout or explicit
// invalidation.
func (s *Service) ClearCaches() {
	s.slots.Clear()
	s.doctors.Clear()
	s.specialties.Clear()
}

// SlotsLoading reports whether a slot fetch is in flight.
func (s *Service) SlotsLoading() bool { return s.slots.Loading() }

// SlotsErr returns the most recent slot fetch error, if any.
func (s *Service) SlotsErr() error { return s.slots.Err() }

// WeekRange returns the Monday-through-Sunday week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, -1)
}

// ScheduleEvents builds the schedule calendar for a date range: one event
// per published slot, colored per doctor. Slots are fetched one day at a
// time and a failed day degrades to a gap, not a failed week. A non-zero
// specialtyID narrows the feed to that specialty's doctors.
func (s *Service) ScheduleEvents(ctx context.Context, from, to time.Time, specialtyID int, selectedDoctors map[int]bool) ([]calendar.Event, error) {
	docRes, err := s.LoadDoctors(ctx, false)
	if err != nil {
		return nil, err
	}
	colors := calendar.AssignDoctorColors(docRes.Items)

	var slots []clinic.Slot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		daySlots, err := s.up.Slots(ctx, upstream.SlotQuery{Date: localtime.DateKey(day)})
		if err != nil {
			s.log.Warn().Err(err).Str("date", localtime.DateKey(day)).Msg("day slot load failed")
			continue
		}
		slots = append(slots, daySlots...)
	}

	filtered := calendar.FilterSlots(slots, selectedDoctors, specialtyID)
	events := make([]calendar.Event, 0, len(filtered))
	for _, slot := range filtered {
		color := calendar.FallbackColor
		if slot.Doctor != nil {
			if c, ok := colors[slot.Doctor.ID]; ok {
				color = c
			}
		}
		ev, err := s.builder.EventFromSlot(slot, color)
		if err != nil {
			s.log.Warn().Err(err).Int("slot_id", slot.ID).Msg("skipping slot event")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// AppointmentEvents builds the appointment calendar for the given filters.
// An empty date range defaults to the current month. Filtering happens
// in memory so changing a filter does not refetch.
func (s *Service) AppointmentEvents(ctx context.Context, filters calendar.Filters) ([]calendar.Event, error) {
	dateFrom, dateTo := filters.DateFrom, filters.DateTo
	if dateFrom == "" || dateTo == "" {
		start, end := MonthRange(s.now())
		dateFrom, dateTo = localtime.DateKey(start), localtime.DateKey(end)
	}

	appts, err := s.up.Appointments(ctx, upstream.AppointmentQuery{DateFrom: dateFrom, DateTo: dateTo})
	if err != nil {
		return nil, err
	}

	docRes, err := s.LoadDoctors(ctx, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("doctor load failed, specialty filters degrade")
	}
	spRes, err := s.LoadSpecialties(ctx, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("specialty load failed, labels degrade")
	}

	matched := filters.Apply(appts, docRes.Items)
	events := make([]calendar.Event, 0, len(matched))
	for _, appt := range matched {
		ev, err := s.builder.EventFromAppointment(appt, docRes.Items, spRes.Items)
		if err != nil {
			s.log.Warn().Err(err).Int("appointment_id", appt.ID).Msg("skipping appointment event")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// DoctorOptions lists the doctors selectable under the given specialty
// filter.
func (s *Service) DoctorOptions(ctx context.Context, specialtyID int) ([]clinic.Doctor, error) {
	docRes, err := s.LoadDoctors(ctx, false)
	if err != nil {
		return nil, err
	}
	return calendar.DoctorOptions(docRes.Items, specialtyID), nil
}

// RefreshToday force-refreshes today's slot query so the cache stays warm
// between user visits. Called by the refresh worker.
func (s *Service) RefreshToday(ctx context.Context) error {
	q := upstream.SlotQuery{Date: localtime.DateKey(s.now())}
	res, err := s.LoadSlots(ctx, q, true)
	if err != nil {
		return err
	}
	if res.Stale {
		return res.Err
	}
	s.log.Info().Int("slots", len(res.Items)).Str("date", q.Date).Msg("slot cache refreshed")
	return nil
}
