package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Action is a lifecycle operation a hospital applies to an appointment.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Slots is the fixed set of bookable time slots: six morning and six
// afternoon half-hour starts. Booking any other time is rejected.
var Slots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

var slotSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Slots))
	for _, s := range Slots {
		m[s] = struct{}{}
	}
	return m
}()

// ValidSlot reports whether t is one of the bookable time slots.
func ValidSlot(t string) bool {
	_, ok := slotSet[t]
	return ok
}

// Appointment maps to the appointments table. Doctor, hospital and patient
// names are denormalized at booking time so history survives later edits or
// doctor removal. Rating is nil until the patient rates a completed visit.
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName  string    `db:"patient_name" json:"patient_name"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DoctorName   string    `db:"doctor_name" json:"doctor_name"`
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	HospitalName string    `db:"hospital_name" json:"hospital_name"`
	Date         time.Time `db:"date" json:"date"`
	Slot         string    `db:"slot" json:"slot"`
	Status       Status    `db:"status" json:"status"`
	Rating       *int      `db:"rating" json:"rating,omitempty"`
	Review       string    `db:"review" json:"review,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Rated reports whether the patient has already rated this appointment.
func (a *Appointment) Rated() bool { return a.Rating != nil }
