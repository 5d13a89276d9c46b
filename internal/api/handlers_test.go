package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/vitalsalud/agenda/internal/booking"
)

type memKV struct {
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func draftRouter() (chi.Router, *memKV) {
	kv := &memKV{data: make(map[string]string)}
	store := booking.NewDraftStore(kv)

	r := chi.NewRouter()
	r.Get("/booking/draft/{session}", getDraftHandler(store))
	r.Put("/booking/draft/{session}", putDraftHandler(store))
	r.Delete("/booking/draft/{session}", deleteDraftHandler(store))
	return r, kv
}

func TestDraftHandlers(t *testing.T) {
	r, kv := draftRouter()

	// Empty session reads as null selection.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/booking/draft/sess-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got DraftResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Selection != nil {
		t.Fatalf("Selection = %+v, want nil", got.Selection)
	}

	// Store then read back.
	body := `{"doctorId":3,"slotId":42,"date":"2026-09-01","time":"09:00","price":120}`
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/booking/draft/sess-1", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/booking/draft/sess-1", nil))
	got = DraftResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Selection == nil || got.Selection.SlotID != 42 || got.Selection.DoctorID != 3 {
		t.Fatalf("Selection = %+v", got.Selection)
	}

	// Delete clears the backing key.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/booking/draft/sess-1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	if len(kv.data) != 0 {
		t.Fatalf("kv not cleared: %v", kv.data)
	}
}

func TestPutDraftRejectsBadJSON(t *testing.T) {
	r, _ := draftRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/booking/draft/sess-1", strings.NewReader("{nope")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "invalid_request_body" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPaymentCallbackHandler(t *testing.T) {
	h := paymentCallbackHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/payments/callback?appointment_id=42&payment_id=9&status=approved&collection_status=approved", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var summary struct {
		AppointmentID int    `json:"appointmentId"`
		Outcome       string `json:"outcome"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.AppointmentID != 42 || summary.Outcome != "success" {
		t.Errorf("summary = %+v", summary)
	}
}

func TestPaymentCallbackHandlerMissingParams(t *testing.T) {
	h := paymentCallbackHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/callback?status=approved", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "invalid_callback" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestDateRangeDefaultsToCurrentWeek(t *testing.T) {
	from, to, err := dateRange(map[string][]string{})
	if err != nil {
		t.Fatalf("dateRange: %v", err)
	}
	if !to.Equal(from.AddDate(0, 0, 6)) {
		t.Errorf("range = %s..%s, want a 7-day week", from, to)
	}
}

func TestDateRangeRejectsGarbage(t *testing.T) {
	_, _, err := dateRange(map[string][]string{
		"date_from": {"not-a-date"},
		"date_to":   {"2026-09-07"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSelectedDoctors(t *testing.T) {
	if got := selectedDoctors(map[string][]string{}); got != nil {
		t.Errorf("absent param should mean all doctors, got %v", got)
	}

	got := selectedDoctors(map[string][]string{"doctor_id": {"1", "3", "junk"}})
	if len(got) != 2 || !got[1] || !got[3] {
		t.Errorf("selected = %v", got)
	}
}
