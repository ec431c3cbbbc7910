package settings

import (
	"context"
	"fmt"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

type Service struct {
	settings Repository
}

func NewService(settings Repository) *Service {
	return &Service{settings: settings}
}

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	return s.settings.Get(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, upd *Settings) error {
	if upd.ClinicName == "" {
		return fmt.Errorf("clinic name is required")
	}
	if upd.SlotDurationMinutes < 1 {
		return fmt.Errorf("slot duration must be at least 1 minute")
	}
	if upd.SlotCapacity < 1 {
		return fmt.Errorf("slot capacity must be at least 1")
	}
	// Resolving each weekday surfaces malformed or inverted windows
	// before they are persisted.
	for wd := 0; wd < 7; wd++ {
		if _, err := availability.ResolveDaySchedule(upd.WeeklyHours, nil, wd, upd.SlotDurationMinutes); err != nil {
			return err
		}
	}
	return s.settings.Save(ctx, upd)
}

// ClinicSchedule implements the schedule source consumed by the doctor
// and appointment services.
func (s *Service) ClinicSchedule(ctx context.Context) (availability.WeeklyHours, int, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return availability.WeeklyHours{}, 0, err
	}
	return current.WeeklyHours, current.SlotDurationMinutes, nil
}
