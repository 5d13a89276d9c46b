// Package upstream is the typed HTTP client for the clinic's REST API.
// The API is inconsistent about response envelopes: some endpoints return
// {success, data}, some bare arrays, some {appointments: [...]}. List
// decoding tolerates all three and treats anything else as an empty
// result, so a malformed payload degrades the view instead of breaking it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitalsalud/agenda/internal/clinic"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     logger,
	}
}

// SlotQuery selects published slots. Zero values are omitted from the
// request, which also keeps the cache key canonical.
type SlotQuery struct {
	Date        string
	SpecialtyID int
	Modality    clinic.Modality
	DoctorID    int
}

func (q SlotQuery) Params() map[string]string {
	p := map[string]string{"date": q.Date}
	if q.SpecialtyID != 0 {
		p["specialty_id"] = strconv.Itoa(q.SpecialtyID)
	}
	if q.Modality != "" {
		p["modality"] = string(q.Modality)
	}
	if q.DoctorID != 0 {
		p["doctor_id"] = strconv.Itoa(q.DoctorID)
	}
	return p
}

// SlotQueryFromParams is the inverse of Params, used by the query cache
// to rebuild the request behind a canonical key.
func SlotQueryFromParams(p map[string]string) SlotQuery {
	q := SlotQuery{Date: p["date"], Modality: clinic.Modality(p["modality"])}
	q.SpecialtyID, _ = strconv.Atoi(p["specialty_id"])
	q.DoctorID, _ = strconv.Atoi(p["doctor_id"])
	return q
}

type AppointmentQuery struct {
	PatientID int
	DoctorID  int
	Status    clinic.AppointmentStatus
	Modality  clinic.Modality
	DateFrom  string
	DateTo    string
}

func (q AppointmentQuery) Params() map[string]string {
	p := map[string]string{}
	if q.PatientID != 0 {
		p["patient_id"] = strconv.Itoa(q.PatientID)
	}
	if q.DoctorID != 0 {
		p["doctor_id"] = strconv.Itoa(q.DoctorID)
	}
	if q.Status != "" {
		p["status"] = string(q.Status)
	}
	if q.Modality != "" {
		p["modality"] = string(q.Modality)
	}
	if q.DateFrom != "" {
		p["date_from"] = q.DateFrom
	}
	if q.DateTo != "" {
		p["date_to"] = q.DateTo
	}
	return p
}

func (c *Client) Doctors(ctx context.Context) ([]clinic.Doctor, error) {
	return getList[clinic.Doctor](ctx, c, "/doctors", nil)
}

func (c *Client) Specialties(ctx context.Context) ([]clinic.Specialty, error) {
	return getList[clinic.Specialty](ctx, c, "/specialities", nil)
}

// ActiveSpecialties filters to entries usable for booking.
func (c *Client) ActiveSpecialties(ctx context.Context) ([]clinic.Specialty, error) {
	all, err := c.Specialties(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]clinic.Specialty, 0, len(all))
	for _, s := range all {
		if s.Status == clinic.SpecialtyActivo {
			active = append(active, s)
		}
	}
	return active, nil
}

func (c *Client) Slots(ctx context.Context, q SlotQuery) ([]clinic.Slot, error) {
	return getList[clinic.Slot](ctx, c, "/appointment-slots", q.Params())
}

func (c *Client) Appointments(ctx context.Context, q AppointmentQuery) ([]clinic.Appointment, error) {
	return getList[clinic.Appointment](ctx, c, "/appointments", q.Params())
}

type CreateAppointmentRequest struct {
	PatientID       int                      `json:"patient_id"`
	DoctorID        int                      `json:"doctor_id"`
	SlotID          int                      `json:"slot_id"`
	AppointmentDate string                   `json:"appointment_date"`
	Status          clinic.AppointmentStatus `json:"status"`
	Modality        clinic.Modality          `json:"modality"`
	ScheduledAt     string                   `json:"scheduled_at"`
}

type mutationEnvelope struct {
	Success bool                `json:"success"`
	Data    *clinic.Appointment `json:"data"`
	Message string              `json:"message"`
}

func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*clinic.Appointment, error) {
	return c.mutateAppointment(ctx, http.MethodPost, "/appointments", req)
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id int, status clinic.AppointmentStatus) (*clinic.Appointment, error) {
	path := fmt.Sprintf("/appointments/%d", id)
	return c.mutateAppointment(ctx, http.MethodPut, path, map[string]string{"status": string(status)})
}

func (c *Client) mutateAppointment(ctx context.Context, method, path string, payload any) (*clinic.Appointment, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.do(ctx, method, path, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var env mutationEnvelope
	if err := json.Unmarshal(resp, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("upstream rejected %s %s: %s", method, path, env.Message)
	}
	return env.Data, nil
}

// Ping is a cheap readiness probe against the specialty listing.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/specialities", nil, nil)
	return err
}

func getList[T any](ctx context.Context, c *Client, path string, params map[string]string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](c.log, path, body), nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			if v != "" {
				q.Set(k, v)
			}
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: upstream status %d", method, path, resp.StatusCode)
	}
	return data, nil
}

// decodeList accepts a bare array, a {success,data} envelope, or an
// {appointments} envelope. Any other shape logs a warning and yields an
// empty list.
func decodeList[T any](log zerolog.Logger, path string, body []byte) []T {
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items
	}

	var env struct {
		Data         json.RawMessage `json:"data"`
		Appointments json.RawMessage `json:"appointments"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		raw := env.Data
		if raw == nil {
			raw = env.Appointments
		}
		if raw != nil {
			if err := json.Unmarshal(raw, &items); err == nil {
				return items
			}
		}
	}

	log.Warn().Str("path", path).Msg("unexpected upstream response shape")
	return []T{}
}
