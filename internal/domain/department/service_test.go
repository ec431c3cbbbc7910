package department

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	departments map[uuid.UUID]*Department
}

func newMockRepo() *mockRepo {
	return &mockRepo{departments: make(map[uuid.UUID]*Department)}
}

func (m *mockRepo) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	m.departments[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockRepo) Update(ctx context.Context, d *Department) error {
	if _, ok := m.departments[d.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.departments[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.departments, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Department, int, error) {
	var items []*Department
	for _, d := range m.departments {
		items = append(items, d)
	}
	return items, len(items), nil
}

func TestCreateDepartment(t *testing.T) {
	svc := NewService(newMockRepo())

	d := &Department{Name: "Kardiyoloji", IsActive: true}
	if err := svc.CreateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateDepartment_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.CreateDepartment(context.Background(), &Department{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestUpdateDepartment(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	d := &Department{Name: "Dahiliye", IsActive: true}
	if err := svc.CreateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Name = "İç Hastalıkları"
	if err := svc.UpdateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetDepartment(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "İç Hastalıkları" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
}

func TestDeleteDepartment(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	d := &Department{Name: "Göz", IsActive: true}
	if err := svc.CreateDepartment(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteDepartment(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetDepartment(context.Background(), d.ID); err == nil {
		t.Error("expected not found after delete")
	}
}
