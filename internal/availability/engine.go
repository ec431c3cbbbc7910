// Package availability computes bookable time slots for a clinic day.
//
// The engine is pure: all inputs (working hours, closures, existing
// bookings, the current time) are passed in per call and the result is
// recomputed from scratch. It performs no I/O and never reads the
// system clock, which keeps it deterministic and trivially safe to use
// from concurrent requests.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status classifies a single slot.
type Status string

const (
	StatusOpen            Status = "open"
	StatusFull            Status = "full"
	StatusPast            Status = "past"
	StatusClosedClinic    Status = "closedClinic"
	StatusClosedDoctor    Status = "closedDoctor"
	StatusClosedByClosure Status = "closedByClosure"
	StatusLunchBreak      Status = "lunchBreak"
)

// DayHours is one weekday entry of a weekly working-hours configuration.
// When IsOpen is false the remaining fields are ignored.
type DayHours struct {
	IsOpen        bool   `json:"is_open"`
	Start         string `json:"start"`
	End           string `json:"end"`
	HasLunchBreak bool   `json:"has_lunch_break"`
	LunchStart    string `json:"lunch_start"`
	LunchEnd      string `json:"lunch_end"`
}

// WeeklyHours holds one entry per weekday, indexed 0=Sunday..6=Saturday.
type WeeklyHours [7]DayHours

// ClosureTarget says whether a closure blocks the whole clinic or a
// single doctor.
type ClosureTarget string

const (
	TargetClinic ClosureTarget = "clinic"
	TargetDoctor ClosureTarget = "doctor"
)

// Closure is an ad-hoc override blocking some or all slots on one date.
type Closure struct {
	Date       time.Time
	TargetType ClosureTarget
	DoctorID   uuid.UUID // set iff TargetType == TargetDoctor
	IsFullDay  bool
	StartTime  string // "HH:MM", required iff not full day
	EndTime    string
	Reason     string
	IsActive   bool
}

// Booking is an existing appointment occupying a slot. Cancelled
// bookings do not count toward occupancy.
type Booking struct {
	Time   string // "HH:MM"
	Status string
}

// BookingStatusCancelled is the appointment status excluded from
// occupancy counts.
const BookingStatusCancelled = "cancelled"

// Window is a half-open [Start, End) interval in minutes of day.
type Window struct {
	Start int
	End   int
}

// Contains reports whether minute t falls inside the window.
func (w Window) Contains(t int) bool { return t >= w.Start && t < w.End }

// DaySchedule is the resolved effective working window for one
// (entity, date) pair. Start/End are minutes of day. When the day is
// closed, ClosedBy says why and the window (if any) is only used to
// render closed slots.
type DaySchedule struct {
	IsOpen       bool
	ClosedBy     Status // StatusClosedClinic or StatusClosedDoctor when closed
	Start        int
	End          int
	Lunch        *Window
	SlotDuration int
}

// Slot is one classified candidate slot. RemainingCapacity is
// meaningful only when Status is StatusOpen.
type Slot struct {
	Time              string `json:"time"`
	Status            Status `json:"status"`
	RemainingCapacity int    `json:"remaining_capacity"`
	ClosureReason     string `json:"closure_reason,omitempty"`
}

// ConfigurationError signals invalid stored configuration: malformed
// "HH:MM" strings, inverted windows, or a non-positive slot duration.
// It is fatal to the call; the engine never coerces bad input into slots.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("availability: invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// parseClock parses "HH:MM" into minutes of day.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// Clock formats minutes of day as "HH:MM".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses "HH:MM" into minutes of day. Exposed so callers
// can validate user-entered times with the same rules the engine uses.
func ParseClock(s string) (int, error) {
	return parseClock(s)
}

// ResolveDaySchedule resolves the effective working window for one
// weekday (0=Sunday..6=Saturday).
//
// Resolution order: a clinic entry with IsOpen=false closes the day for
// every doctor, regardless of the doctor's own entry. Otherwise a
// doctor override governs the working window when present and open; an
// explicitly closed doctor entry closes the day for that doctor only;
// an absent override falls back to the clinic window. The lunch window
// always comes from the clinic entry.
func ResolveDaySchedule(clinic WeeklyHours, doctor *WeeklyHours, weekday int, slotDuration int) (DaySchedule, error) {
	if weekday < 0 || weekday > 6 {
		return DaySchedule{}, configErr("weekday", "must be 0..6, got %d", weekday)
	}
	if slotDuration <= 0 {
		return DaySchedule{}, configErr("slot_duration", "must be positive, got %d", slotDuration)
	}

	clinicDay := clinic[weekday]
	ds := DaySchedule{SlotDuration: slotDuration}

	if !clinicDay.IsOpen {
		ds.ClosedBy = StatusClosedClinic
		// Best effort window so callers can still render a closed grid.
		// Malformed or inverted times on a closed day are not an error.
		if start, err := parseClock(clinicDay.Start); err == nil {
			if end, err := parseClock(clinicDay.End); err == nil && start < end {
				ds.Start, ds.End = start, end
			}
		}
		return ds, nil
	}

	start, err := parseClock(clinicDay.Start)
	if err != nil {
		return DaySchedule{}, configErr("clinic.start", "%v", err)
	}
	end, err := parseClock(clinicDay.End)
	if err != nil {
		return DaySchedule{}, configErr("clinic.end", "%v", err)
	}
	if start >= end {
		return DaySchedule{}, configErr("clinic.hours", "start %s is not before end %s", clinicDay.Start, clinicDay.End)
	}
	ds.Start, ds.End = start, end

	if doctor != nil {
		docDay := doctor[weekday]
		if !docDay.IsOpen {
			ds.ClosedBy = StatusClosedDoctor
			return ds, nil
		}
		dStart, err := parseClock(docDay.Start)
		if err != nil {
			return DaySchedule{}, configErr("doctor.start", "%v", err)
		}
		dEnd, err := parseClock(docDay.End)
		if err != nil {
			return DaySchedule{}, configErr("doctor.end", "%v", err)
		}
		if dStart >= dEnd {
			return DaySchedule{}, configErr("doctor.hours", "start %s is not before end %s", docDay.Start, docDay.End)
		}
		ds.Start, ds.End = dStart, dEnd
	}

	// Lunch breaks are defined at the clinic level only.
	if clinicDay.HasLunchBreak {
		ls, err := parseClock(clinicDay.LunchStart)
		if err != nil {
			return DaySchedule{}, configErr("clinic.lunch_start", "%v", err)
		}
		le, err := parseClock(clinicDay.LunchEnd)
		if err != nil {
			return DaySchedule{}, configErr("clinic.lunch_end", "%v", err)
		}
		if ls >= le {
			return DaySchedule{}, configErr("clinic.lunch", "start %s is not before end %s", clinicDay.LunchStart, clinicDay.LunchEnd)
		}
		ds.Lunch = &Window{Start: ls, End: le}
	}

	ds.IsOpen = true
	return ds, nil
}

// Params carries everything EnumerateSlots needs for one doctor and
// date. DoctorID may be uuid.Nil when no doctor is selected yet; doctor
// targeted closures then never match. Closures may be the full stored
// list: the engine filters by date and IsActive itself.
type Params struct {
	Day      DaySchedule
	Date     time.Time // calendar date, naive local wall clock
	DoctorID uuid.UUID
	Closures []Closure
	Bookings []Booking
	Capacity int
	Now      time.Time
}

// activeClosure is a closure pre-filtered to the target and parsed into
// a minute window.
type activeClosure struct {
	window *Window // nil for full-day
	reason string
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// matchClosures filters and parses the closures relevant to the date
// and doctor.
func matchClosures(closures []Closure, date time.Time, doctorID uuid.UUID) ([]activeClosure, error) {
	var matched []activeClosure
	for _, cl := range closures {
		if !cl.IsActive || !sameDate(cl.Date, date) {
			continue
		}
		switch cl.TargetType {
		case TargetClinic:
		case TargetDoctor:
			if doctorID == uuid.Nil || cl.DoctorID != doctorID {
				continue
			}
		default:
			return nil, configErr("closure.target_type", "unknown target %q", cl.TargetType)
		}
		ac := activeClosure{reason: cl.Reason}
		if !cl.IsFullDay {
			start, err := parseClock(cl.StartTime)
			if err != nil {
				return nil, configErr("closure.start_time", "%v", err)
			}
			end, err := parseClock(cl.EndTime)
			if err != nil {
				return nil, configErr("closure.end_time", "%v", err)
			}
			if start >= end {
				return nil, configErr("closure.window", "start %s is not before end %s", cl.StartTime, cl.EndTime)
			}
			ac.window = &Window{Start: start, End: end}
		}
		matched = append(matched, ac)
	}
	return matched, nil
}

// AggregateBookings counts non-cancelled bookings per slot start
// minute. Times are normalized, so "9:00" and "09:00" land in the same
// bucket.
func AggregateBookings(bookings []Booking) (map[int]int, error) {
	counts := make(map[int]int, len(bookings))
	for _, b := range bookings {
		if b.Status == BookingStatusCancelled {
			continue
		}
		t, err := parseClock(b.Time)
		if err != nil {
			return nil, configErr("booking.time", "%v", err)
		}
		counts[t]++
	}
	return counts, nil
}

// EnumerateSlots produces the ordered slot list for one day. Candidate
// start times run from Day.Start to Day.End (exclusive) stepping by
// Day.SlotDuration. Each slot gets exactly one status, first match
// wins: closedClinic, closedDoctor, lunchBreak, closedByClosure, past,
// full, open.
//
// A closed day with no derivable window yields an empty list, not an
// error; callers display a "closed" message.
func EnumerateSlots(p Params) ([]Slot, error) {
	ds := p.Day
	if ds.SlotDuration <= 0 {
		return nil, configErr("slot_duration", "must be positive, got %d", ds.SlotDuration)
	}
	if p.Capacity <= 0 {
		return nil, configErr("capacity", "must be positive, got %d", p.Capacity)
	}
	if ds.Start >= ds.End {
		if !ds.IsOpen {
			return []Slot{}, nil
		}
		return nil, configErr("day.hours", "start %s is not before end %s", Clock(ds.Start), Clock(ds.End))
	}

	closures, err := matchClosures(p.Closures, p.Date, p.DoctorID)
	if err != nil {
		return nil, err
	}
	booked, err := AggregateBookings(p.Bookings)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, (ds.End-ds.Start)/ds.SlotDuration+1)
	for t := ds.Start; t < ds.End; t += ds.SlotDuration {
		slots = append(slots, classify(t, ds, closures, booked, p))
	}
	return slots, nil
}

func classify(t int, ds DaySchedule, closures []activeClosure, booked map[int]int, p Params) Slot {
	slot := Slot{Time: Clock(t)}

	if !ds.IsOpen {
		slot.Status = ds.ClosedBy
		return slot
	}
	if ds.Lunch != nil && ds.Lunch.Contains(t) {
		slot.Status = StatusLunchBreak
		return slot
	}
	for _, cl := range closures {
		if cl.window == nil || cl.window.Contains(t) {
			slot.Status = StatusClosedByClosure
			slot.ClosureReason = cl.reason
			return slot
		}
	}

	moment := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), t/60, t%60, 0, 0, p.Now.Location())
	if moment.Before(p.Now) {
		slot.Status = StatusPast
		return slot
	}

	if booked[t] >= p.Capacity {
		slot.Status = StatusFull
		return slot
	}

	slot.Status = StatusOpen
	slot.RemainingCapacity = p.Capacity - booked[t]
	return slot
}

// IsBookable reports whether a slot can accept a new appointment.
func IsBookable(s Slot) bool { return s.Status == StatusOpen }
