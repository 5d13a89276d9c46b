// Package calendar derives display-ready events from slots and
// appointments. Events are pure projections: they are recomputed whenever
// the underlying collections or filters change and are never persisted.
package calendar

import (
	"fmt"
	"time"

	"github.com/vitalsalud/agenda/internal/clinic"
	"github.com/vitalsalud/agenda/internal/localtime"
)

const defaultDurationMinutes = 30

// Placeholder shown when an event's specialty cannot be resolved from the
// loaded collections. A missing cross-reference degrades the label, never
// the render.
const unknownSpecialty = "Sin especialidad"

// Display status of a slot event.
const (
	SlotAvailable = "available"
	SlotOccupied  = "occupied"
)

type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	BackgroundColor string     `json:"backgroundColor"`
	BorderColor     string     `json:"borderColor"`
	TextColor       string     `json:"textColor"`
	Props           EventProps `json:"extendedProps"`
}

type EventProps struct {
	SlotID        int             `json:"slotId,omitempty"`
	AppointmentID int             `json:"appointmentId,omitempty"`
	PatientID     int             `json:"patientId,omitempty"`
	DoctorID      int             `json:"doctorId"`
	Status        string          `json:"status"`
	Modality      clinic.Modality `json:"modality"`
	Price         float64         `json:"price,omitempty"`
	PatientName   string          `json:"patientName,omitempty"`
	DoctorName    string          `json:"doctorName,omitempty"`
	Specialty     string          `json:"specialty,omitempty"`
	Phone         string          `json:"phone,omitempty"`
}

// Builder turns domain records into events. Now is injectable so past-event
// styling is testable.
type Builder struct {
	Now func() time.Time
}

func NewBuilder() Builder {
	return Builder{Now: time.Now}
}

// EventFromSlot builds a schedule event for a published slot. Past slots
// stay visible but are dimmed: the doctor color gets an alpha suffix and
// the text color drops opacity. History must remain on the calendar.
func (b Builder) EventFromSlot(slot clinic.Slot, doctorColor string) (Event, error) {
	start, err := localtime.Parse(slot.ScheduledAt)
	if err != nil {
		return Event{}, fmt.Errorf("slot %d scheduled_at: %w", slot.ID, err)
	}
	end := start.Add(time.Duration(slot.DurationMinutes) * time.Minute)

	if doctorColor == "" {
		doctorColor = FallbackColor
	}

	title := ""
	doctorID := 0
	var patientName string
	if slot.Doctor != nil {
		title = slot.Doctor.DisplayName()
		doctorID = slot.Doctor.ID
	}
	if slot.Patient != nil {
		patientName = slot.Patient.DisplayName()
	}

	backgroundColor := doctorColor
	textColor := "#ffffff"
	if start.Before(b.Now()) {
		backgroundColor = doctorColor + "60"
		textColor = "rgba(255, 255, 255, 0.7)"
	}

	return Event{
		ID:              fmt.Sprintf("slot-%d", slot.ID),
		Title:           title,
		Start:           start,
		End:             end,
		BackgroundColor: backgroundColor,
		BorderColor:     backgroundColor,
		TextColor:       textColor,
		Props: EventProps{
			SlotID:      slot.ID,
			DoctorID:    doctorID,
			Status:      slotDisplayStatus(slot),
			Modality:    slot.Modality,
			Price:       slot.Price,
			PatientName: patientName,
		},
	}, nil
}

// slotDisplayStatus prefers the backend status field and keeps the old
// patient-reference fallback for payloads that predate it.
func slotDisplayStatus(slot clinic.Slot) string {
	switch slot.Status {
	case clinic.SlotDisponible:
		return SlotAvailable
	case clinic.SlotOcupado:
		return SlotOccupied
	}
	if slot.Patient != nil {
		return SlotOccupied
	}
	return SlotAvailable
}

// EventFromAppointment builds a calendar event for a booked appointment.
// Fill color encodes status, border color encodes modality. Start combines
// the appointment date with the linked slot's wall-clock time; the slot
// duration drives the end, defaulting to 30 minutes when absent.
func (b Builder) EventFromAppointment(appt clinic.Appointment, doctors []clinic.Doctor, specialties []clinic.Specialty) (Event, error) {
	day, err := localtime.Parse(appt.AppointmentDate)
	if err != nil {
		return Event{}, fmt.Errorf("appointment %d date: %w", appt.ID, err)
	}

	start := day
	duration := defaultDurationMinutes
	if appt.Slot != nil {
		if clock, err := localtime.Parse(appt.Slot.ScheduledAt); err == nil {
			start = localtime.Combine(day, clock)
		}
		if appt.Slot.DurationMinutes > 0 {
			duration = appt.Slot.DurationMinutes
		}
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	var patientName, doctorName string
	if appt.Patient != nil {
		patientName = appt.Patient.DisplayName()
	}
	if appt.Doctor != nil {
		doctorName = appt.Doctor.DisplayName()
	}
	title := patientName + " - " + doctorName

	specialty := unknownSpecialty
	if doctor := findDoctor(doctors, appt.DoctorID); doctor != nil {
		if sp := findSpecialty(specialties, doctor.SpecialtyID); sp != nil {
			specialty = sp.Name
		}
	}

	var phone string
	if appt.Patient != nil {
		phone = appt.Patient.Phone
	}

	return Event{
		ID:              fmt.Sprintf("appointment-%d", appt.ID),
		Title:           title,
		Start:           start,
		End:             end,
		BackgroundColor: StatusColor(appt.Status),
		BorderColor:     ModalityColor(appt.Modality),
		TextColor:       "#ffffff",
		Props: EventProps{
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			DoctorID:      appt.DoctorID,
			Status:        string(appt.Status),
			Modality:      appt.Modality,
			PatientName:   patientName,
			DoctorName:    doctorName,
			Specialty:     specialty,
			Phone:         phone,
		},
	}, nil
}

func findDoctor(doctors []clinic.Doctor, id int) *clinic.Doctor {
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i]
		}
	}
	return nil
}

func findSpecialty(specialties []clinic.Specialty, id int) *clinic.Specialty {
	for i := range specialties {
		if specialties[i].ID == id {
			return &specialties[i]
		}
	}
	return nil
}
