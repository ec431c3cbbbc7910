package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/platform/validate"
)

type Service struct {
	patients Repository
	groups   GroupRepository
}

func NewService(patients Repository, groups GroupRepository) *Service {
	return &Service{patients: patients, groups: groups}
}

func validatePatient(p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if err := validate.NationalID(p.NationalID); err != nil {
		return err
	}
	if p.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	return validate.Phone(p.Phone)
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	if err := validate.NationalID(nationalID); err != nil {
		return nil, err
	}
	return s.patients.GetByNationalID(ctx, nationalID)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, params, limit, offset)
}

// -- Groups --

func (s *Service) CreateGroup(ctx context.Context, g *Group) error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.groups.Create(ctx, g)
}

func (s *Service) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *Service) UpdateGroup(ctx context.Context, g *Group) error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.groups.Update(ctx, g)
}

func (s *Service) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.groups.Delete(ctx, id)
}

func (s *Service) ListGroups(ctx context.Context, limit, offset int) ([]*Group, int, error) {
	return s.groups.List(ctx, limit, offset)
}
