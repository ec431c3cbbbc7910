package closure

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Closure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Closure, error)
	Update(ctx context.Context, c *Closure) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Closure, int, error)
	ListByDate(ctx context.Context, date time.Time) ([]*Closure, error)
}
