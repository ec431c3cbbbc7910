package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. A cancelled appointment frees its slot.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusNoShow    = "no-show"
	StatusCancelled = "cancelled"
)

// Appointment priorities.
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusNoShow:    true,
	StatusCancelled: true,
}

var validPriorities = map[string]bool{
	PriorityNormal: true,
	PriorityUrgent: true,
}

// ErrSlotTaken is returned when the store rejects a booking because
// the non-cancelled appointments at the same doctor, date and time
// already fill the configured capacity. The locked occupancy check in
// the store is the authoritative conflict detector; the in-memory
// availability check is only advisory.
var ErrSlotTaken = errors.New("slot is already booked")

// Appointment maps to the appointment table. Time is the slot start in
// "HH:MM"; Date carries no time component.
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DepartmentID uuid.UUID `db:"department_id" json:"department_id"`
	Date         time.Time `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Status       string    `db:"status" json:"status"`
	Priority     string    `db:"priority" json:"priority"`
	Note         *string   `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DayRow is one appointment joined with patient and doctor names, used
// by the day list and the Excel export.
type DayRow struct {
	Appointment
	PatientName       string `db:"patient_name" json:"patient_name"`
	PatientNationalID string `db:"patient_national_id" json:"patient_national_id"`
	DoctorName        string `db:"doctor_name" json:"doctor_name"`
	DepartmentName    string `db:"department_name" json:"department_name"`
}
