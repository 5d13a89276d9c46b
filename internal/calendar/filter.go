package calendar

import (
	"github.com/vitalsalud/agenda/internal/clinic"
	"github.com/vitalsalud/agenda/internal/localtime"
)

// Filters narrows an appointment collection. Zero values are the "all"
// sentinels: empty status/modality, zero ids, empty date bounds. Each
// bound of the date range is independently optional and inclusive.
type Filters struct {
	Status      clinic.AppointmentStatus
	Modality    clinic.Modality
	SpecialtyID int
	DoctorID    int
	DateFrom    string // YYYY-MM-DD
	DateTo      string // YYYY-MM-DD
}

// Apply returns the subset of appointments matching every active filter,
// preserving input order. Specialty is not stored on the appointment; it
// resolves through the doctor list. Inputs are never mutated, so applying
// the same filters twice yields the same output.
func (f Filters) Apply(appts []clinic.Appointment, doctors []clinic.Doctor) []clinic.Appointment {
	out := make([]clinic.Appointment, 0, len(appts))
	for _, a := range appts {
		if f.matches(a, doctors) {
			out = append(out, a)
		}
	}
	return out
}

func (f Filters) matches(a clinic.Appointment, doctors []clinic.Doctor) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Modality != "" && a.Modality != f.Modality {
		return false
	}
	if f.SpecialtyID != 0 {
		doctor := findDoctor(doctors, a.DoctorID)
		if doctor == nil || doctor.SpecialtyID != f.SpecialtyID {
			return false
		}
	}
	if f.DoctorID != 0 && a.DoctorID != f.DoctorID {
		return false
	}
	if f.DateFrom != "" || f.DateTo != "" {
		day, err := localtime.Parse(a.AppointmentDate)
		if err != nil {
			return false
		}
		key := localtime.DateKey(day)
		if f.DateFrom != "" && key < f.DateFrom {
			return false
		}
		if f.DateTo != "" && key > f.DateTo {
			return false
		}
	}
	return true
}

// FilterSlots keeps the slots belonging to the selected doctors and, when
// specialtyID is non-zero, to doctors of that specialty. A nil selected
// set means every doctor is selected.
func FilterSlots(slots []clinic.Slot, selected map[int]bool, specialtyID int) []clinic.Slot {
	out := make([]clinic.Slot, 0, len(slots))
	for _, s := range slots {
		if s.Doctor == nil {
			continue
		}
		if selected != nil && !selected[s.Doctor.ID] {
			continue
		}
		if specialtyID != 0 && s.Doctor.SpecialtyID != specialtyID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DoctorOptions narrows the doctor choices to the selected specialty;
// specialtyID zero means every doctor. A doctor filter already pointing
// outside the narrowed specialty is deliberately left alone by callers.
func DoctorOptions(doctors []clinic.Doctor, specialtyID int) []clinic.Doctor {
	if specialtyID == 0 {
		return append([]clinic.Doctor(nil), doctors...)
	}
	out := make([]clinic.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.SpecialtyID == specialtyID {
			out = append(out, d)
		}
	}
	return out
}
