package closure

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

// Closure maps to the closure table. A closure blocks bookings for the
// whole clinic or a single doctor, for a full day or a time window.
type Closure struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Date       time.Time  `db:"date" json:"date"`
	TargetType string     `db:"target_type" json:"target_type"`
	DoctorID   *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	IsFullDay  bool       `db:"is_full_day" json:"is_full_day"`
	StartTime  *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime    *string    `db:"end_time" json:"end_time,omitempty"`
	Reason     string     `db:"reason" json:"reason"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// ToEngine converts the record into the engine's closure input.
func (c *Closure) ToEngine() availability.Closure {
	e := availability.Closure{
		Date:       c.Date,
		TargetType: availability.ClosureTarget(c.TargetType),
		IsFullDay:  c.IsFullDay,
		Reason:     c.Reason,
		IsActive:   c.IsActive,
	}
	if c.DoctorID != nil {
		e.DoctorID = *c.DoctorID
	}
	if c.StartTime != nil {
		e.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		e.EndTime = *c.EndTime
	}
	return e
}
