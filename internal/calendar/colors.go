package calendar

import "github.com/vitalsalud/agenda/internal/clinic"

// doctorPalette is the fixed set of colors used to tell doctors apart on
// the schedule calendar. Assignment is positional, so cross-session
// stability depends on the caller feeding doctors in a stable order.
var doctorPalette = []string{
	"#3498db",
	"#e74c3c",
	"#2ecc71",
	"#f39c12",
	"#9b59b6",
	"#1abc9c",
	"#34495e",
	"#e67e22",
	"#8e44ad",
	"#27ae60",
	"#2980b9",
	"#c0392b",
}

// FallbackColor is used when an event's doctor is not in the assignment.
const FallbackColor = "#6c757d"

// Appointment fill color by status. Background encodes status; border
// encodes modality. The two channels are independent.
var statusColors = map[clinic.AppointmentStatus]string{
	clinic.StatusReservada: "#f59e0b",
	clinic.StatusPagada:    "#10b981",
	clinic.StatusRealizada: "#6366f1",
	clinic.StatusCancelada: "#ef4444",
}

var modalityColors = map[clinic.Modality]string{
	clinic.ModalityPresencial:   "#3b82f6",
	clinic.ModalityTeleconsulta: "#8b5cf6",
}

// AssignDoctorColors maps each doctor's id to a palette color by position
// in the input, wrapping when the palette runs out. Pure function of input
// order.
func AssignDoctorColors(doctors []clinic.Doctor) map[int]string {
	colors := make(map[int]string, len(doctors))
	for i, d := range doctors {
		colors[d.ID] = doctorPalette[i%len(doctorPalette)]
	}
	return colors
}

// StatusColor returns the fill color for an appointment status, falling
// back to the neutral gray for values outside the four-state table.
func StatusColor(s clinic.AppointmentStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return FallbackColor
}

// ModalityColor returns the border color for a modality.
func ModalityColor(m clinic.Modality) string {
	if c, ok := modalityColors[m]; ok {
		return c
	}
	return FallbackColor
}
