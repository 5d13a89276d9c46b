package clinic

// Upstream status and modality vocabularies. The clinic API speaks Spanish;
// these values travel on the wire as-is.

type AppointmentStatus string

const (
	StatusReservada  AppointmentStatus = "reservada"
	StatusPagada     AppointmentStatus = "pagada"
	StatusRealizada  AppointmentStatus = "realizada"
	StatusCancelada  AppointmentStatus = "cancelada"
	StatusConfirmada AppointmentStatus = "confirmada"
)

type SlotStatus string

const (
	SlotDisponible SlotStatus = "disponible"
	SlotPendiente  SlotStatus = "pendiente"
	SlotOcupado    SlotStatus = "ocupado"
	SlotCancelado  SlotStatus = "cancelado"
)

type Modality string

const (
	ModalityPresencial   Modality = "presencial"
	ModalityTeleconsulta Modality = "teleconsulta"
)

type SpecialtyStatus string

const (
	SpecialtyActivo   SpecialtyStatus = "activo"
	SpecialtyInactivo SpecialtyStatus = "inactivo"
)

type Doctor struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id"`
	SpecialtyID   int    `json:"specialty_id"`
	LicenseNumber string `json:"license_number"`
	SpecialtyName string `json:"specialty_name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	Photo         string `json:"photo"`
}

// DisplayName is the doctor name as shown on calendar events.
func (d Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

type Patient struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (p Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type Specialty struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Status      SpecialtyStatus `json:"status"`
}

// Slot is a bookable time interval published by the clinic. ScheduledAt is
// kept raw because the upstream timestamp convention is ambiguous; it is
// resolved by localtime.Parse at the point of use.
type Slot struct {
	ID              int        `json:"id"`
	ScheduledAt     string     `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Price           float64    `json:"price"`
	Status          SlotStatus `json:"status"`
	Doctor          *Doctor    `json:"doctor_data"`
	Patient         *Patient   `json:"patient_data"`
	SpecialtyID     int        `json:"specialty_id"`
	Specialty       string     `json:"specialty"`
	Modality        Modality   `json:"schedule_modality"`
}

type Appointment struct {
	ID              int               `json:"id"`
	PatientID       int               `json:"patient_id"`
	DoctorID        int               `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name,omitempty"`
	SlotID          int               `json:"slot_id"`
	AppointmentDate string            `json:"appointment_date"`
	Status          AppointmentStatus `json:"status"`
	Modality        Modality          `json:"modality"`
	ScheduledAt     string            `json:"scheduled_at"`
	Patient         *Patient          `json:"patient_data"`
	Doctor          *Doctor           `json:"doctor_data"`
	Slot            *Slot             `json:"slot"`
	Specialty       string            `json:"specialty"`
}
