package doctor

import (
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

// Doctor maps to the doctor table. WeeklyHours and SlotCapacity are
// optional overrides; when nil the clinic-wide settings apply.
type Doctor struct {
	ID           uuid.UUID                 `db:"id" json:"id"`
	DepartmentID uuid.UUID                 `db:"department_id" json:"department_id"`
	FirstName    string                    `db:"first_name" json:"first_name"`
	LastName     string                    `db:"last_name" json:"last_name"`
	Title        *string                   `db:"title" json:"title,omitempty"`
	Phone        *string                   `db:"phone" json:"phone,omitempty"`
	Email        *string                   `db:"email" json:"email,omitempty"`
	IsActive     bool                      `db:"is_active" json:"is_active"`
	WeeklyHours  *availability.WeeklyHours `db:"weekly_hours" json:"weekly_hours,omitempty"`
	SlotCapacity *int                      `db:"slot_capacity" json:"slot_capacity,omitempty"`
	CreatedAt    time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                 `db:"updated_at" json:"updated_at"`
}

// FullName returns the doctor's display name including the title when
// present.
func (d *Doctor) FullName() string {
	name := d.FirstName + " " + d.LastName
	if d.Title != nil && *d.Title != "" {
		return *d.Title + " " + name
	}
	return name
}
