package closure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

type Service struct {
	closures Repository
}

func NewService(closures Repository) *Service {
	return &Service{closures: closures}
}

func validateClosure(c *Closure) error {
	if c.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	switch availability.ClosureTarget(c.TargetType) {
	case availability.TargetClinic:
		c.DoctorID = nil
	case availability.TargetDoctor:
		if c.DoctorID == nil || *c.DoctorID == uuid.Nil {
			return fmt.Errorf("doctor is required for a doctor closure")
		}
	default:
		return fmt.Errorf("target type must be %q or %q", availability.TargetClinic, availability.TargetDoctor)
	}

	if c.IsFullDay {
		c.StartTime = nil
		c.EndTime = nil
		return nil
	}

	if c.StartTime == nil || c.EndTime == nil {
		return fmt.Errorf("start and end times are required for a partial closure")
	}
	start, err := availability.ParseClock(*c.StartTime)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	end, err := availability.ParseClock(*c.EndTime)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("closure window must end after it starts")
	}
	return nil
}

func (s *Service) CreateClosure(ctx context.Context, c *Closure) error {
	if err := validateClosure(c); err != nil {
		return err
	}
	return s.closures.Create(ctx, c)
}

func (s *Service) GetClosure(ctx context.Context, id uuid.UUID) (*Closure, error) {
	return s.closures.GetByID(ctx, id)
}

func (s *Service) UpdateClosure(ctx context.Context, c *Closure) error {
	if err := validateClosure(c); err != nil {
		return err
	}
	return s.closures.Update(ctx, c)
}

func (s *Service) DeleteClosure(ctx context.Context, id uuid.UUID) error {
	return s.closures.Delete(ctx, id)
}

func (s *Service) ListClosures(ctx context.Context, params map[string]string, limit, offset int) ([]*Closure, int, error) {
	return s.closures.List(ctx, params, limit, offset)
}

// ClosuresForDate returns the engine inputs for one day.
func (s *Service) ClosuresForDate(ctx context.Context, date time.Time) ([]availability.Closure, error) {
	items, err := s.closures.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]availability.Closure, 0, len(items))
	for _, c := range items {
		out = append(out, c.ToEngine())
	}
	return out, nil
}
