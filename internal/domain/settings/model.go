package settings

import (
	"time"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

// Settings is the clinic-wide configuration. One row exists per
// installation; the weekly hours are stored as jsonb.
type Settings struct {
	ClinicName          string                   `db:"clinic_name" json:"clinic_name"`
	WeeklyHours         availability.WeeklyHours `db:"weekly_hours" json:"weekly_hours"`
	SlotDurationMinutes int                      `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	SlotCapacity        int                      `db:"slot_capacity" json:"slot_capacity"`
	UpdatedAt           time.Time                `db:"updated_at" json:"updated_at"`
}

// Default returns the settings a fresh installation starts with:
// weekdays 09:00-18:00 with a 12:00-13:00 lunch break, 30 minute slots,
// one patient per slot.
func Default() *Settings {
	var wh availability.WeeklyHours
	for wd := 1; wd <= 5; wd++ {
		wh[wd] = availability.DayHours{
			IsOpen:        true,
			Start:         "09:00",
			End:           "18:00",
			HasLunchBreak: true,
			LunchStart:    "12:00",
			LunchEnd:      "13:00",
		}
	}
	return &Settings{
		ClinicName:          "Klinik",
		WeeklyHours:         wh,
		SlotDurationMinutes: 30,
		SlotCapacity:        1,
	}
}
