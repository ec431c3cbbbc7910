package closure

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

type mockRepo struct {
	closures map[uuid.UUID]*Closure
}

func newMockRepo() *mockRepo {
	return &mockRepo{closures: make(map[uuid.UUID]*Closure)}
}

func (m *mockRepo) Create(ctx context.Context, c *Closure) error {
	c.ID = uuid.New()
	m.closures[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Closure, error) {
	c, ok := m.closures[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

func (m *mockRepo) Update(ctx context.Context, c *Closure) error {
	if _, ok := m.closures[c.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.closures[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.closures, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Closure, int, error) {
	var items []*Closure
	for _, c := range m.closures {
		items = append(items, c)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDate(ctx context.Context, date time.Time) ([]*Closure, error) {
	var items []*Closure
	for _, c := range m.closures {
		if c.Date.Equal(date) {
			items = append(items, c)
		}
	}
	return items, nil
}

var testDate = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func fullDayClinicClosure() *Closure {
	return &Closure{
		Date:       testDate,
		TargetType: string(availability.TargetClinic),
		IsFullDay:  true,
		Reason:     "Tatil",
		IsActive:   true,
	}
}

func TestCreateClosure_FullDay(t *testing.T) {
	svc := NewService(newMockRepo())

	c := fullDayClinicClosure()
	// Window times on a full-day closure are ignored and dropped.
	c.StartTime = strPtr("10:00")
	c.EndTime = strPtr("11:00")

	if err := svc.CreateClosure(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.StartTime != nil || c.EndTime != nil {
		t.Error("expected window cleared on full-day closure")
	}
}

func TestCreateClosure_DoctorTarget(t *testing.T) {
	svc := NewService(newMockRepo())

	doctorID := uuid.New()
	c := &Closure{
		Date:       testDate,
		TargetType: string(availability.TargetDoctor),
		DoctorID:   &doctorID,
		IsFullDay:  false,
		StartTime:  strPtr("14:00"),
		EndTime:    strPtr("15:00"),
		Reason:     "Toplantı",
		IsActive:   true,
	}
	if err := svc.CreateClosure(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateClosure_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Closure)
	}{
		{"missing date", func(c *Closure) { c.Date = time.Time{} }},
		{"bad target type", func(c *Closure) { c.TargetType = "room" }},
		{"doctor target without doctor", func(c *Closure) {
			c.TargetType = string(availability.TargetDoctor)
		}},
		{"partial without window", func(c *Closure) { c.IsFullDay = false }},
		{"inverted window", func(c *Closure) {
			c.IsFullDay = false
			c.StartTime = strPtr("15:00")
			c.EndTime = strPtr("14:00")
		}},
		{"malformed time", func(c *Closure) {
			c.IsFullDay = false
			c.StartTime = strPtr("2pm")
			c.EndTime = strPtr("15:00")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fullDayClinicClosure()
			tt.mutate(c)
			if err := svc.CreateClosure(context.Background(), c); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateClosure_ClinicTargetDropsDoctor(t *testing.T) {
	svc := NewService(newMockRepo())

	doctorID := uuid.New()
	c := fullDayClinicClosure()
	c.DoctorID = &doctorID

	if err := svc.CreateClosure(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DoctorID != nil {
		t.Error("expected doctor id cleared on clinic closure")
	}
}

func TestClosuresForDate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	if err := svc.CreateClosure(context.Background(), fullDayClinicClosure()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := fullDayClinicClosure()
	other.Date = testDate.AddDate(0, 0, 1)
	if err := svc.CreateClosure(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engineClosures, err := svc.ClosuresForDate(context.Background(), testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(engineClosures) != 1 {
		t.Fatalf("expected 1 closure for date, got %d", len(engineClosures))
	}
	if engineClosures[0].Reason != "Tatil" || !engineClosures[0].IsFullDay {
		t.Errorf("unexpected engine closure: %+v", engineClosures[0])
	}
}
