package settings

import (
	"context"
	"testing"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

type mockRepo struct {
	stored *Settings
}

func (m *mockRepo) Get(ctx context.Context) (*Settings, error) {
	if m.stored == nil {
		return Default(), nil
	}
	return m.stored, nil
}

func (m *mockRepo) Save(ctx context.Context, s *Settings) error {
	m.stored = s
	return nil
}

func TestGetSettings_DefaultsWhenUnset(t *testing.T) {
	svc := NewService(&mockRepo{})

	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SlotDurationMinutes != 30 {
		t.Errorf("expected default slot duration 30, got %d", got.SlotDurationMinutes)
	}
	if !got.WeeklyHours[1].IsOpen || got.WeeklyHours[0].IsOpen {
		t.Error("expected weekdays open and Sunday closed by default")
	}
}

func TestUpdateSettings(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	upd := Default()
	upd.ClinicName = "Anadolu Klinik"
	upd.SlotDurationMinutes = 20
	upd.SlotCapacity = 2

	if err := svc.UpdateSettings(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.stored == nil || repo.stored.ClinicName != "Anadolu Klinik" {
		t.Error("expected settings to be saved")
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc := NewService(&mockRepo{})

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing name", func(s *Settings) { s.ClinicName = "" }},
		{"zero duration", func(s *Settings) { s.SlotDurationMinutes = 0 }},
		{"negative duration", func(s *Settings) { s.SlotDurationMinutes = -15 }},
		{"zero capacity", func(s *Settings) { s.SlotCapacity = 0 }},
		{"inverted window", func(s *Settings) {
			s.WeeklyHours[1] = availability.DayHours{IsOpen: true, Start: "18:00", End: "09:00"}
		}},
		{"malformed time", func(s *Settings) {
			s.WeeklyHours[2] = availability.DayHours{IsOpen: true, Start: "9am", End: "18:00"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd := Default()
			tt.mutate(upd)
			if err := svc.UpdateSettings(context.Background(), upd); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestClinicSchedule(t *testing.T) {
	svc := NewService(&mockRepo{})

	hours, duration, err := svc.ClinicSchedule(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if duration != 30 {
		t.Errorf("expected duration 30, got %d", duration)
	}
	if !hours[3].IsOpen {
		t.Error("expected Wednesday open")
	}
}
