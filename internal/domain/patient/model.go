package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. NationalID is the TC Kimlik No
// and is unique across the clinic.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	NationalID string     `db:"national_id" json:"national_id"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	Phone      string     `db:"phone" json:"phone"`
	Email      *string    `db:"email" json:"email,omitempty"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	GroupID    *uuid.UUID `db:"group_id" json:"group_id,omitempty"`
	Note       *string    `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Group maps to the patient_group table. Groups label patients for
// list filtering (color is a hex value used by the panel UI).
type Group struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     *string   `db:"color" json:"color,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
