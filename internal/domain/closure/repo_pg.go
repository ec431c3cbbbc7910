package closure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, date, target_type, doctor_id, is_full_day, start_time, end_time,
	reason, is_active, created_at, updated_at`

func scanClosure(row pgx.Row) (*Closure, error) {
	var c Closure
	err := row.Scan(&c.ID, &c.Date, &c.TargetType, &c.DoctorID, &c.IsFullDay,
		&c.StartTime, &c.EndTime, &c.Reason, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Closure) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO closure (id, date, target_type, doctor_id, is_full_day,
			start_time, end_time, reason, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Date, c.TargetType, c.DoctorID, c.IsFullDay,
		c.StartTime, c.EndTime, c.Reason, c.IsActive)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Closure, error) {
	return scanClosure(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM closure WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Closure) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE closure SET date=$2, target_type=$3, doctor_id=$4, is_full_day=$5,
			start_time=$6, end_time=$7, reason=$8, is_active=$9, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Date, c.TargetType, c.DoctorID, c.IsFullDay,
		c.StartTime, c.EndTime, c.Reason, c.IsActive)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM closure WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Closure, int, error) {
	query := `SELECT ` + cols + ` FROM closure WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM closure WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["target_type"]; ok {
		query += fmt.Sprintf(` AND target_type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND target_type = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["doctor"]; ok {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["from"]; ok {
		query += fmt.Sprintf(` AND date >= $%d`, idx)
		countQuery += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["to"]; ok {
		query += fmt.Sprintf(` AND date <= $%d`, idx)
		countQuery += fmt.Sprintf(` AND date <= $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["active"]; ok {
		query += fmt.Sprintf(` AND is_active = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByDate(ctx context.Context, date time.Time) ([]*Closure, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM closure WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
