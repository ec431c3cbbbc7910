package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/domain/doctor"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/domain/settings"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/platform/metrics"
)

// DoctorSource supplies the doctor whose schedule is being resolved.
type DoctorSource interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// SettingsSource supplies the clinic-wide schedule defaults.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*settings.Settings, error)
}

// ClosureSource supplies the closures affecting one day.
type ClosureSource interface {
	ClosuresForDate(ctx context.Context, date time.Time) ([]availability.Closure, error)
}

type Service struct {
	appointments Repository
	doctors      DoctorSource
	settings     SettingsSource
	closures     ClosureSource
	now          func() time.Time
}

func NewService(appointments Repository, doctors DoctorSource, settingsSrc SettingsSource, closures ClosureSource) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		settings:     settingsSrc,
		closures:     closures,
		now:          time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Service) validate(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor is required")
	}
	if a.DepartmentID == uuid.Nil {
		return fmt.Errorf("department is required")
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if _, err := availability.ParseClock(a.Time); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status %q", a.Status)
	}
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	if !validPriorities[a.Priority] {
		return fmt.Errorf("invalid priority %q", a.Priority)
	}
	a.Date = dateOnly(a.Date)
	return nil
}

// dayParams assembles the engine inputs for one day. With doctorID set
// it resolves that doctor's override, capacity and bookings; with
// uuid.Nil it produces the clinic-generic view: clinic hours and
// capacity, doctor-targeted closures ignored, no occupancy.
func (s *Service) dayParams(ctx context.Context, doctorID uuid.UUID, date time.Time) (availability.Params, error) {
	date = dateOnly(date)

	clinic, err := s.settings.GetSettings(ctx)
	if err != nil {
		return availability.Params{}, fmt.Errorf("load settings: %w", err)
	}

	var override *availability.WeeklyHours
	capacity := clinic.SlotCapacity
	var bookings []availability.Booking

	if doctorID != uuid.Nil {
		doc, err := s.doctors.GetDoctor(ctx, doctorID)
		if err != nil {
			return availability.Params{}, fmt.Errorf("load doctor: %w", err)
		}
		override = doc.WeeklyHours
		if doc.SlotCapacity != nil {
			capacity = *doc.SlotCapacity
		}

		booked, err := s.appointments.ListByDoctorDate(ctx, doctorID, date)
		if err != nil {
			return availability.Params{}, fmt.Errorf("load bookings: %w", err)
		}
		bookings = make([]availability.Booking, 0, len(booked))
		for _, a := range booked {
			bookings = append(bookings, availability.Booking{Time: a.Time, Status: a.Status})
		}
	}

	day, err := availability.ResolveDaySchedule(clinic.WeeklyHours, override,
		int(date.Weekday()), clinic.SlotDurationMinutes)
	if err != nil {
		return availability.Params{}, err
	}

	closures, err := s.closures.ClosuresForDate(ctx, date)
	if err != nil {
		return availability.Params{}, fmt.Errorf("load closures: %w", err)
	}

	return availability.Params{
		Day:      day,
		Date:     date,
		DoctorID: doctorID,
		Closures: closures,
		Bookings: bookings,
		Capacity: capacity,
		Now:      s.now(),
	}, nil
}

// slotCapacity resolves the effective per-slot capacity for a doctor.
func (s *Service) slotCapacity(ctx context.Context, doctorID uuid.UUID) (int, error) {
	clinic, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	capacity := clinic.SlotCapacity
	if doctorID != uuid.Nil {
		doc, err := s.doctors.GetDoctor(ctx, doctorID)
		if err != nil {
			return 0, fmt.Errorf("load doctor: %w", err)
		}
		if doc.SlotCapacity != nil {
			capacity = *doc.SlotCapacity
		}
	}
	return capacity, nil
}

// DayAvailability returns the classified slots for one day, for a
// specific doctor or (with uuid.Nil) the clinic generically.
func (s *Service) DayAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]availability.Slot, error) {
	p, err := s.dayParams(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return availability.EnumerateSlots(p)
}

// checkSlot verifies against freshly assembled availability that the
// requested time is a bookable slot start, and returns the effective
// capacity so the store can enforce it again under lock.
func (s *Service) checkSlot(ctx context.Context, a *Appointment) (int, error) {
	p, err := s.dayParams(ctx, a.DoctorID, a.Date)
	if err != nil {
		return 0, err
	}
	slots, err := availability.EnumerateSlots(p)
	if err != nil {
		return 0, err
	}
	want, err := availability.ParseClock(a.Time)
	if err != nil {
		return 0, err
	}
	for _, slot := range slots {
		t, err := availability.ParseClock(slot.Time)
		if err != nil {
			continue
		}
		if t != want {
			continue
		}
		if !availability.IsBookable(slot) {
			if slot.Status == availability.StatusFull {
				return 0, ErrSlotTaken
			}
			return 0, fmt.Errorf("slot %s is not bookable: %s", slot.Time, slot.Status)
		}
		a.Time = slot.Time
		return p.Capacity, nil
	}
	return 0, fmt.Errorf("%s is not a valid slot start for this day", a.Time)
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	capacity, err := s.checkSlot(ctx, a)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.IncSlotConflict()
		}
		return err
	}
	if err := s.appointments.Create(ctx, a, capacity); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.IncSlotConflict()
		}
		return err
	}
	metrics.IncAppointmentCreated(a.Status)
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	existing, err := s.appointments.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	moved := !existing.Date.Equal(a.Date) || existing.Time != a.Time || existing.DoctorID != a.DoctorID
	var capacity int
	if a.Status != StatusCancelled {
		if moved {
			capacity, err = s.checkSlot(ctx, a)
			if err != nil {
				if errors.Is(err, ErrSlotTaken) {
					metrics.IncSlotConflict()
				}
				return err
			}
		} else {
			capacity, err = s.slotCapacity(ctx, a.DoctorID)
			if err != nil {
				return err
			}
		}
	}
	if err := s.appointments.Update(ctx, a, capacity); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.IncSlotConflict()
		}
		return err
	}
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid status %q", status)
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if status == StatusCancelled {
		metrics.IncAppointmentCancelled()
	}
	return nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, params, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

// DayList returns one day's appointments joined with patient and
// doctor names, optionally filtered to a single doctor.
func (s *Service) DayList(ctx context.Context, date time.Time, doctorID *uuid.UUID) ([]*DayRow, error) {
	return s.appointments.ListDay(ctx, dateOnly(date), doctorID)
}
