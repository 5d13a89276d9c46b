// mock-upstream is a development stand-in for the clinic's REST API. It
// generates a random but internally consistent data set and serves the
// same envelopes (and the same mislabeled-UTC timestamps) the real API
// produces, so the agenda binaries can run end to end locally.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vitalsalud/agenda/internal/clinic"
)

// The real API appends a Z to naive local timestamps. Reproduced here on
// purpose; see localtime.Parse.
const wireTimeLayout = "2006-01-02T15:04:05Z"

type dataset struct {
	mu           sync.Mutex
	specialties  []clinic.Specialty
	doctors      []clinic.Doctor
	slots        []clinic.Slot
	appointments []clinic.Appointment
	nextApptID   int
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	port := os.Getenv("MOCK_HTTP_PORT")
	if port == "" {
		port = "9090"
	}

	gofakeit.Seed(time.Now().UnixNano())
	ds := generate()
	logger.Info().
		Int("specialties", len(ds.specialties)).
		Int("doctors", len(ds.doctors)).
		Int("slots", len(ds.slots)).
		Int("appointments", len(ds.appointments)).
		Msg("mock data generated")

	r := chi.NewRouter()
	r.Get("/specialities", ds.listSpecialties)
	r.Get("/doctors", ds.listDoctors)
	r.Get("/appointment-slots", ds.listSlots)
	r.Get("/appointments", ds.listAppointments)
	r.Post("/appointments", ds.createAppointment)
	r.Put("/appointments/{id}", ds.updateAppointment)

	logger.Info().Str("addr", ":"+port).Msg("mock-upstream listening")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("mock-upstream server error")
	}
}

var specialtyNames = []string{
	"Cardiología",
	"Dermatología",
	"Medicina General",
	"Pediatría",
	"Neurología",
	"Endocrinología",
	"Psiquiatría",
	"Oftalmología",
}

func generate() *dataset {
	ds := &dataset{nextApptID: 1}

	for i, name := range specialtyNames {
		status := clinic.SpecialtyActivo
		if i == len(specialtyNames)-1 {
			status = clinic.SpecialtyInactivo
		}
		ds.specialties = append(ds.specialties, clinic.Specialty{
			ID:          i + 1,
			Name:        name,
			Code:        fmt.Sprintf("ESP-%02d", i+1),
			Description: gofakeit.Sentence(8),
			Status:      status,
		})
	}

	for i := 0; i < 14; i++ {
		sp := ds.specialties[rand.Intn(len(ds.specialties)-1)]
		ds.doctors = append(ds.doctors, clinic.Doctor{
			ID:            i + 1,
			UserID:        100 + i,
			SpecialtyID:   sp.ID,
			SpecialtyName: sp.Name,
			LicenseNumber: fmt.Sprintf("CMP-%05d", gofakeit.Number(10000, 99999)),
			FirstName:     gofakeit.FirstName(),
			LastName:      gofakeit.LastName(),
			Gender:        gofakeit.Gender(),
		})
	}

	slotID := 1
	today := time.Now()
	for _, doc := range ds.doctors {
		doc := doc
		for day := -3; day <= 7; day++ {
			date := today.AddDate(0, 0, day)
			for hour := 9; hour <= 16; hour++ {
				if rand.Float64() < 0.4 {
					continue
				}
				modality := clinic.ModalityPresencial
				if rand.Float64() < 0.3 {
					modality = clinic.ModalityTeleconsulta
				}

				at := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.Local)
				slot := clinic.Slot{
					ID:              slotID,
					ScheduledAt:     at.Format(wireTimeLayout),
					DurationMinutes: 30,
					Price:           float64(gofakeit.Number(50, 200)),
					Status:          clinic.SlotDisponible,
					Doctor:          &doc,
					SpecialtyID:     doc.SpecialtyID,
					Specialty:       doc.SpecialtyName,
					Modality:        modality,
				}

				if rand.Float64() < 0.25 {
					slot.Status = clinic.SlotOcupado
					slot.Patient = &clinic.Patient{
						ID:        gofakeit.Number(1, 500),
						FirstName: gofakeit.FirstName(),
						LastName:  gofakeit.LastName(),
						Phone:     gofakeit.Phone(),
						Email:     gofakeit.Email(),
					}
					ds.appointments = append(ds.appointments, appointmentForSlot(ds.nextApptID, slot, at))
					ds.nextApptID++
				}

				ds.slots = append(ds.slots, slot)
				slotID++
			}
		}
	}

	return ds
}

func appointmentForSlot(id int, slot clinic.Slot, at time.Time) clinic.Appointment {
	statuses := []clinic.AppointmentStatus{
		clinic.StatusReservada, clinic.StatusPagada, clinic.StatusRealizada, clinic.StatusCancelada,
	}
	s := slot
	return clinic.Appointment{
		ID:              id,
		PatientID:       slot.Patient.ID,
		DoctorID:        slot.Doctor.ID,
		SlotID:          slot.ID,
		AppointmentDate: at.Format("2006-01-02"),
		Status:          statuses[rand.Intn(len(statuses))],
		Modality:        slot.Modality,
		ScheduledAt:     slot.ScheduledAt,
		Patient:         slot.Patient,
		Doctor:          slot.Doctor,
		Slot:            &s,
		Specialty:       slot.Specialty,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (ds *dataset) listSpecialties(w http.ResponseWriter, r *http.Request) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	writeEnvelope(w, http.StatusOK, ds.specialties)
}

func (ds *dataset) listDoctors(w http.ResponseWriter, r *http.Request) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	writeEnvelope(w, http.StatusOK, ds.doctors)
}

func (ds *dataset) listSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	specialtyID, _ := strconv.Atoi(q.Get("specialty_id"))
	doctorID, _ := strconv.Atoi(q.Get("doctor_id"))
	modality := q.Get("modality")

	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := []clinic.Slot{}
	for _, s := range ds.slots {
		if date != "" && len(s.ScheduledAt) >= 10 && s.ScheduledAt[:10] != date {
			continue
		}
		if specialtyID != 0 && s.SpecialtyID != specialtyID {
			continue
		}
		if doctorID != 0 && (s.Doctor == nil || s.Doctor.ID != doctorID) {
			continue
		}
		if modality != "" && string(s.Modality) != modality {
			continue
		}
		out = append(out, s)
	}
	writeEnvelope(w, http.StatusOK, out)
}

func (ds *dataset) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateFrom := q.Get("date_from")
	dateTo := q.Get("date_to")
	status := q.Get("status")

	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := []clinic.Appointment{}
	for _, a := range ds.appointments {
		if dateFrom != "" && a.AppointmentDate < dateFrom {
			continue
		}
		if dateTo != "" && a.AppointmentDate > dateTo {
			continue
		}
		if status != "" && string(a.Status) != status {
			continue
		}
		out = append(out, a)
	}
	writeEnvelope(w, http.StatusOK, out)
}

func (ds *dataset) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID       int                      `json:"patient_id"`
		DoctorID        int                      `json:"doctor_id"`
		SlotID          int                      `json:"slot_id"`
		AppointmentDate string                   `json:"appointment_date"`
		Status          clinic.AppointmentStatus `json:"status"`
		Modality        clinic.Modality          `json:"modality"`
		ScheduledAt     string                   `json:"scheduled_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "invalid body"})
		return
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	for i := range ds.slots {
		if ds.slots[i].ID == req.SlotID {
			if ds.slots[i].Status != clinic.SlotDisponible {
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "slot ocupado"})
				return
			}
			ds.slots[i].Status = clinic.SlotOcupado
		}
	}

	appt := clinic.Appointment{
		ID:              ds.nextApptID,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		SlotID:          req.SlotID,
		AppointmentDate: req.AppointmentDate,
		Status:          req.Status,
		Modality:        req.Modality,
		ScheduledAt:     req.ScheduledAt,
	}
	ds.nextApptID++
	ds.appointments = append(ds.appointments, appt)

	writeEnvelope(w, http.StatusCreated, appt)
}

func (ds *dataset) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "invalid id"})
		return
	}

	var req struct {
		Status clinic.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "invalid body"})
		return
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	for i := range ds.appointments {
		if ds.appointments[i].ID == id {
			ds.appointments[i].Status = req.Status
			writeEnvelope(w, http.StatusOK, ds.appointments[i])
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "appointment not found"})
}
