// Package booking holds the patient-facing booking flow: grouping slots
// into per-doctor cards and persisting the in-progress appointment
// selection across sessions.
package booking

import (
	"github.com/vitalsalud/agenda/internal/clinic"
	"github.com/vitalsalud/agenda/internal/localtime"
)

const (
	locationVirtual = "Virtual"
	locationClinic  = "Los Olivos"
)

// TimeOption is one bookable time shown under a doctor card.
type TimeOption struct {
	SlotID    int     `json:"slotId"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// DoctorCard groups a doctor's slots for the booking picker.
type DoctorCard struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Specialty string          `json:"specialty"`
	License   string          `json:"license"`
	Modality  clinic.Modality `json:"modality"`
	Location  string          `json:"location"`
	Slots     []TimeOption    `json:"slots"`
}

// GroupByDoctor folds a slot list into doctor cards in first-seen order.
// Slots with unparseable timestamps or no doctor reference are dropped.
func GroupByDoctor(slots []clinic.Slot) []DoctorCard {
	index := make(map[int]int)
	var cards []DoctorCard

	for _, slot := range slots {
		if slot.Doctor == nil {
			continue
		}
		at, err := localtime.Parse(slot.ScheduledAt)
		if err != nil {
			continue
		}

		i, seen := index[slot.Doctor.ID]
		if !seen {
			location := locationClinic
			if slot.Modality == clinic.ModalityTeleconsulta {
				location = locationVirtual
			}
			cards = append(cards, DoctorCard{
				ID:        slot.Doctor.ID,
				Name:      slot.Doctor.DisplayName(),
				Specialty: slot.Specialty,
				License:   slot.Doctor.LicenseNumber,
				Modality:  slot.Modality,
				Location:  location,
				Slots:     nil,
			})
			i = len(cards) - 1
			index[slot.Doctor.ID] = i
		}

		cards[i].Slots = append(cards[i].Slots, TimeOption{
			SlotID:    slot.ID,
			Date:      localtime.DateKey(at),
			Time:      localtime.TimeLabel(at),
			Price:     slot.Price,
			Available: slot.Status == clinic.SlotDisponible,
		})
	}
	return cards
}
