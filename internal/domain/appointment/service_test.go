package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/domain/doctor"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/domain/settings"
)

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) occupancy(a *Appointment, excludeID uuid.UUID) int {
	count := 0
	for _, existing := range m.appointments {
		if existing.ID != excludeID && existing.DoctorID == a.DoctorID &&
			existing.Date.Equal(a.Date) && existing.Time == a.Time &&
			existing.Status != StatusCancelled {
			count++
		}
	}
	return count
}

func (m *mockRepo) Create(ctx context.Context, a *Appointment, capacity int) error {
	if m.occupancy(a, uuid.Nil) >= capacity {
		return ErrSlotTaken
	}
	a.ID = uuid.New()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) Update(ctx context.Context, a *Appointment, capacity int) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return fmt.Errorf("not found")
	}
	if a.Status != StatusCancelled && m.occupancy(a, a.ID) >= capacity {
		return ErrSlotTaken
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	a, ok := m.appointments[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.appointments, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		items = append(items, a)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) {
			items = append(items, a)
		}
	}
	return items, nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListDay(ctx context.Context, date time.Time, doctorID *uuid.UUID) ([]*DayRow, error) {
	var items []*DayRow
	for _, a := range m.appointments {
		if !a.Date.Equal(date) {
			continue
		}
		if doctorID != nil && a.DoctorID != *doctorID {
			continue
		}
		items = append(items, &DayRow{Appointment: *a, PatientName: "Hasta", DoctorName: "Doktor"})
	}
	return items, nil
}

type mockDoctors struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func (m *mockDoctors) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

type mockSettings struct {
	s *settings.Settings
}

func (m *mockSettings) GetSettings(ctx context.Context) (*settings.Settings, error) {
	return m.s, nil
}

type mockClosures struct {
	closures []availability.Closure
}

func (m *mockClosures) ClosuresForDate(ctx context.Context, date time.Time) ([]availability.Closure, error) {
	var out []availability.Closure
	for _, c := range m.closures {
		if c.Date.Equal(date) {
			out = append(out, c)
		}
	}
	return out, nil
}

// testMonday is an open weekday; testSunday is closed by default.
var (
	testMonday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	testSunday = time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local)
)

type fixture struct {
	svc      *Service
	repo     *mockRepo
	closures *mockClosures
	settings *settings.Settings
	doctorID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMockRepo()
	doctorID := uuid.New()
	doctors := &mockDoctors{doctors: map[uuid.UUID]*doctor.Doctor{
		doctorID: {ID: doctorID, FirstName: "Elif", LastName: "Kaya", IsActive: true},
	}}
	closures := &mockClosures{}
	st := settings.Default()

	svc := NewService(repo, doctors, &mockSettings{s: st}, closures)
	// A clock well before the working day keeps no slot in the past.
	svc.SetNow(func() time.Time {
		return time.Date(2025, 3, 3, 6, 0, 0, 0, time.Local)
	})
	return &fixture{svc: svc, repo: repo, closures: closures, settings: st, doctorID: doctorID}
}

func (f *fixture) appointment(t string) *Appointment {
	return &Appointment{
		PatientID:    uuid.New(),
		DoctorID:     f.doctorID,
		DepartmentID: uuid.New(),
		Date:         testMonday,
		Time:         t,
	}
}

func TestDayAvailability(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.DayAvailability(context.Background(), f.doctorID, testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00-18:00 in 30 minute slots is 18 candidates
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00" || slots[0].Status != availability.StatusOpen {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}

	// Default settings put lunch at 12:00-13:00
	for _, slot := range slots {
		if slot.Time == "12:00" || slot.Time == "12:30" {
			if slot.Status != availability.StatusLunchBreak {
				t.Errorf("slot %s: expected lunchBreak, got %s", slot.Time, slot.Status)
			}
		}
	}
}

func TestDayAvailability_ClosedSunday(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.DayAvailability(context.Background(), f.doctorID, testSunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on a closed day without a window, got %d", len(slots))
	}
}

func TestDayAvailability_ClinicGeneric(t *testing.T) {
	f := newFixture(t)

	// Occupancy and doctor-targeted closures must not affect the
	// clinic-generic view.
	if err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.closures.closures = []availability.Closure{{
		Date:       testMonday,
		TargetType: availability.TargetDoctor,
		DoctorID:   f.doctorID,
		IsFullDay:  true,
		IsActive:   true,
	}}

	slots, err := f.svc.DayAvailability(context.Background(), uuid.Nil, testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.Time == "10:00" && slot.Status != availability.StatusOpen {
			t.Errorf("slot 10:00: expected open in clinic view, got %s", slot.Status)
		}
		if slot.Status == availability.StatusClosedByClosure {
			t.Errorf("slot %s: doctor closure leaked into clinic view", slot.Time)
		}
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	a := f.appointment("09:30")
	if err := f.svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusPending || a.Priority != PriorityNormal {
		t.Errorf("expected defaults applied, got status=%q priority=%q", a.Status, a.Priority)
	}
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00"))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCreateAppointment_CapacityTwoAllowsSecondBooking(t *testing.T) {
	f := newFixture(t)
	f.settings.SlotCapacity = 2

	if err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The slot is advertised open with one remaining seat, so a second
	// serial booking must succeed.
	slots, err := f.svc.DayAvailability(context.Background(), f.doctorID, testMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, slot := range slots {
		if slot.Time == "10:00" {
			if slot.Status != availability.StatusOpen || slot.RemainingCapacity != 1 {
				t.Fatalf("expected open slot with 1 remaining, got %+v", slot)
			}
		}
	}
	if err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00")); err != nil {
		t.Fatalf("expected second booking within capacity to succeed, got %v", err)
	}

	err = f.svc.CreateAppointment(context.Background(), f.appointment("10:00"))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken at capacity, got %v", err)
	}
}

func TestCreateAppointment_CancelledFreesSlot(t *testing.T) {
	f := newFixture(t)

	a := f.appointment("10:00")
	if err := f.svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.UpdateStatus(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.CreateAppointment(context.Background(), f.appointment("10:00")); err != nil {
		t.Fatalf("expected slot free after cancellation, got %v", err)
	}
}

func TestCreateAppointment_LunchRejected(t *testing.T) {
	f := newFixture(t)

	err := f.svc.CreateAppointment(context.Background(), f.appointment("12:00"))
	if err == nil {
		t.Fatal("expected error for lunch slot")
	}
	if !strings.Contains(err.Error(), string(availability.StatusLunchBreak)) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_PastRejected(t *testing.T) {
	f := newFixture(t)
	f.svc.SetNow(func() time.Time {
		return time.Date(2025, 3, 3, 10, 15, 0, 0, time.Local)
	})

	err := f.svc.CreateAppointment(context.Background(), f.appointment("09:30"))
	if err == nil {
		t.Fatal("expected error for past slot")
	}
	if !strings.Contains(err.Error(), string(availability.StatusPast)) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_ClosureRejected(t *testing.T) {
	f := newFixture(t)
	f.closures.closures = []availability.Closure{{
		Date:       testMonday,
		TargetType: availability.TargetDoctor,
		DoctorID:   f.doctorID,
		IsFullDay:  false,
		StartTime:  "14:00",
		EndTime:    "15:00",
		Reason:     "Toplantı",
		IsActive:   true,
	}}

	if err := f.svc.CreateAppointment(context.Background(), f.appointment("14:00")); err == nil {
		t.Fatal("expected error for closed slot")
	}
	// Outside the closure window booking still works.
	if err := f.svc.CreateAppointment(context.Background(), f.appointment("15:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAppointment_OffGridTimeRejected(t *testing.T) {
	f := newFixture(t)

	err := f.svc.CreateAppointment(context.Background(), f.appointment("09:15"))
	if err == nil {
		t.Fatal("expected error for off-grid start time")
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*Appointment)
	}{
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }},
		{"missing doctor", func(a *Appointment) { a.DoctorID = uuid.Nil }},
		{"missing department", func(a *Appointment) { a.DepartmentID = uuid.Nil }},
		{"missing date", func(a *Appointment) { a.Date = time.Time{} }},
		{"bad time", func(a *Appointment) { a.Time = "9.30" }},
		{"bad status", func(a *Appointment) { a.Status = "waiting" }},
		{"bad priority", func(a *Appointment) { a.Priority = "asap" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := f.appointment("09:30")
			tt.mutate(a)
			if err := f.svc.CreateAppointment(context.Background(), a); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)

	a := f.appointment("11:00")
	if err := f.svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.UpdateStatus(context.Background(), a.ID, StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetAppointment(context.Background(), a.ID)
	if got.Status != StatusCompleted {
		t.Errorf("expected completed, got %q", got.Status)
	}

	if err := f.svc.UpdateStatus(context.Background(), a.ID, "archived"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestUpdateAppointment_MoveChecksAvailability(t *testing.T) {
	f := newFixture(t)

	first := f.appointment("09:00")
	if err := f.svc.CreateAppointment(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := f.appointment("09:30")
	if err := f.svc.CreateAppointment(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Moving onto an occupied slot is rejected by the advisory check.
	moved := *second
	moved.Time = "09:00"
	err := f.svc.UpdateAppointment(context.Background(), &moved)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// Moving to a free slot succeeds.
	moved.Time = "10:30"
	if err := f.svc.UpdateAppointment(context.Background(), &moved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDayList_FiltersByDoctor(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.CreateAppointment(context.Background(), f.appointment("09:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := f.svc.DayList(context.Background(), testMonday, &f.doctorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	other := uuid.New()
	rows, err = f.svc.DayList(context.Background(), testMonday, &other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows for another doctor, got %d", len(rows))
	}
}
