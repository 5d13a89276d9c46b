package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitalsalud/agenda/internal/agenda"
	"github.com/vitalsalud/agenda/internal/booking"
	"github.com/vitalsalud/agenda/internal/calendar"
	"github.com/vitalsalud/agenda/internal/clinic"
	"github.com/vitalsalud/agenda/internal/localtime"
	"github.com/vitalsalud/agenda/internal/payment"
	"github.com/vitalsalud/agenda/internal/upstream"
)

func scheduleEventsHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := dateRange(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
			return
		}

		specialtyID := intParam(r.URL.Query(), "specialty_id")
		selected := selectedDoctors(r.URL.Query())

		events, err := svc.ScheduleEvents(r.Context(), from, to, specialtyID, selected)
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, EventsResponse{Events: events})
	}
}

func scheduleICSHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := dateRange(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
			return
		}

		events, err := svc.ScheduleEvents(r.Context(), from, to, intParam(r.URL.Query(), "specialty_id"), selectedDoctors(r.URL.Query()))
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
		_, _ = w.Write([]byte(calendar.ICS(events, time.Now())))
	}
}

func appointmentEventsHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := calendar.Filters{
			Status:      clinic.AppointmentStatus(q.Get("status")),
			Modality:    clinic.Modality(q.Get("modality")),
			SpecialtyID: intParam(q, "specialty_id"),
			DoctorID:    intParam(q, "doctor_id"),
			DateFrom:    q.Get("date_from"),
			DateTo:      q.Get("date_to"),
		}

		events, err := svc.AppointmentEvents(r.Context(), filters)
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, EventsResponse{Events: events})
	}
}

func doctorOptionsHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.DoctorOptions(r.Context(), intParam(r.URL.Query(), "specialty_id"))
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func specialtiesHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.LoadSpecialties(r.Context(), false)
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res.Items)
	}
}

func bookingDoctorsHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("date") == "" {
			writeError(w, http.StatusBadRequest, "missing_date", "date is required")
			return
		}

		query := upstream.SlotQuery{
			Date:        q.Get("date"),
			SpecialtyID: intParam(q, "specialty_id"),
			Modality:    clinic.Modality(q.Get("modality")),
			DoctorID:    intParam(q, "doctor_id"),
		}
		force := q.Get("refresh") == "true"

		res, err := svc.LoadSlots(r.Context(), query, force)
		if err != nil {
			writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
			return
		}

		resp := DoctorCardsResponse{
			Doctors: booking.GroupByDoctor(res.Items),
			Stale:   res.Stale,
		}
		if res.Err != nil {
			resp.Warning = res.Err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDraftHandler(store *booking.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := store.Selected(r.Context(), chi.URLParam(r, "session"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "draft_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, DraftResponse{Selection: sel})
	}
}

func putDraftHandler(store *booking.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sel booking.Selection
		if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := store.SetSelected(r.Context(), chi.URLParam(r, "session"), &sel); err != nil {
			writeError(w, http.StatusInternalServerError, "draft_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, DraftResponse{Selection: &sel})
	}
}

func deleteDraftHandler(store *booking.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context(), chi.URLParam(r, "session")); err != nil {
			writeError(w, http.StatusInternalServerError, "draft_error", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func paymentCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cb, err := payment.ParseCallback(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_callback", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cb.Summary())
	}
}

func clearCacheHandler(svc *agenda.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCaches()
		w.WriteHeader(http.StatusNoContent)
	}
}

// dateRange reads date_from/date_to, defaulting to the current week.
func dateRange(q url.Values) (time.Time, time.Time, error) {
	if q.Get("date_from") == "" && q.Get("date_to") == "" {
		from, to := agenda.WeekRange(time.Now())
		return from, to, nil
	}

	from, err := localtime.Parse(q.Get("date_from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := localtime.Parse(q.Get("date_to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func intParam(q url.Values, name string) int {
	n, _ := strconv.Atoi(q.Get(name))
	return n
}

// selectedDoctors reads a repeated doctor_id parameter into a selection
// set; absent means all doctors.
func selectedDoctors(q url.Values) map[int]bool {
	ids := q["doctor_id"]
	if len(ids) == 0 {
		return nil
	}
	selected := make(map[int]bool, len(ids))
	for _, raw := range ids {
		if id, err := strconv.Atoi(raw); err == nil {
			selected[id] = true
		}
	}
	return selected
}
