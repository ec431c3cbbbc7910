package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/platform/validate"
)

// ClinicSettingsSource provides the clinic-wide schedule a doctor
// override is checked against.
type ClinicSettingsSource interface {
	ClinicSchedule(ctx context.Context) (availability.WeeklyHours, int, error)
}

type Service struct {
	doctors  Repository
	settings ClinicSettingsSource
}

func NewService(doctors Repository, settings ClinicSettingsSource) *Service {
	return &Service{doctors: doctors, settings: settings}
}

func (s *Service) validate(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if d.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if d.DepartmentID == uuid.Nil {
		return fmt.Errorf("department is required")
	}
	if d.Phone != nil && *d.Phone != "" {
		if err := validate.Phone(*d.Phone); err != nil {
			return err
		}
	}
	if d.SlotCapacity != nil && *d.SlotCapacity < 1 {
		return fmt.Errorf("slot capacity must be at least 1")
	}
	if d.WeeklyHours != nil {
		return s.validateHoursOverride(ctx, d.WeeklyHours)
	}
	return nil
}

// validateHoursOverride rejects overrides that open a weekday the
// clinic marks closed, and malformed time windows.
func (s *Service) validateHoursOverride(ctx context.Context, override *availability.WeeklyHours) error {
	clinic, slotDuration, err := s.settings.ClinicSchedule(ctx)
	if err != nil {
		return fmt.Errorf("load clinic schedule: %w", err)
	}
	for wd := 0; wd < 7; wd++ {
		if override[wd].IsOpen && !clinic[wd].IsOpen {
			return fmt.Errorf("weekday %d is closed for the clinic and cannot be opened per doctor", wd)
		}
		if _, err := availability.ResolveDaySchedule(clinic, override, wd, slotDuration); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, params, limit, offset)
}

func (s *Service) ListDoctorsByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListByDepartment(ctx, departmentID, limit, offset)
}
