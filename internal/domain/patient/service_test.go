package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.NationalID == p.NationalID {
			return ErrDuplicateNationalID
		}
	}
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	for _, p := range m.patients {
		if p.NationalID == nationalID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		items = append(items, p)
	}
	return items, len(items), nil
}

type mockGroupRepo struct {
	groups map[uuid.UUID]*Group
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[uuid.UUID]*Group)}
}

func (m *mockGroupRepo) Create(ctx context.Context, g *Group) error {
	g.ID = uuid.New()
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return g, nil
}

func (m *mockGroupRepo) Update(ctx context.Context, g *Group) error {
	if _, ok := m.groups[g.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.groups[g.ID] = g
	return nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) List(ctx context.Context, limit, offset int) ([]*Group, int, error) {
	var items []*Group
	for _, g := range m.groups {
		items = append(items, g)
	}
	return items, len(items), nil
}

func newTestService() *Service {
	return NewService(newMockRepo(), newMockGroupRepo())
}

func validPatient() *Patient {
	return &Patient{
		NationalID: "10000000146",
		FirstName:  "Ayşe",
		LastName:   "Yılmaz",
		Phone:      "05321234567",
	}
}

func TestCreatePatient(t *testing.T) {
	svc := newTestService()

	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing first name", func(p *Patient) { p.FirstName = "" }},
		{"missing last name", func(p *Patient) { p.LastName = "" }},
		{"bad national id", func(p *Patient) { p.NationalID = "12345678901" }},
		{"short national id", func(p *Patient) { p.NationalID = "123" }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
		{"bad phone", func(p *Patient) { p.Phone = "02121234567" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			if err := svc.CreatePatient(context.Background(), p); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreatePatient_DuplicateNationalID(t *testing.T) {
	svc := newTestService()

	if err := svc.CreatePatient(context.Background(), validPatient()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.CreatePatient(context.Background(), validPatient())
	if !errors.Is(err, ErrDuplicateNationalID) {
		t.Fatalf("expected ErrDuplicateNationalID, got %v", err)
	}
}

func TestGetPatientByNationalID(t *testing.T) {
	svc := newTestService()

	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetPatientByNationalID(context.Background(), p.NationalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected patient %s, got %s", p.ID, got.ID)
	}

	if _, err := svc.GetPatientByNationalID(context.Background(), "not-an-id"); err == nil {
		t.Error("expected error for malformed national id")
	}
}

func TestGroupCRUD(t *testing.T) {
	svc := newTestService()

	g := &Group{Name: "VIP"}
	if err := svc.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.CreateGroup(context.Background(), &Group{}); err == nil {
		t.Error("expected error for missing group name")
	}

	g.Name = "Öncelikli"
	if err := svc.UpdateGroup(context.Background(), g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetGroup(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Öncelikli" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	if err := svc.DeleteGroup(context.Background(), g.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetGroup(context.Background(), g.ID); err == nil {
		t.Error("expected not found after delete")
	}
}
