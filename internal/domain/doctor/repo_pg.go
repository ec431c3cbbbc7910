package doctor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hayaletadmin/hasta-randevu-klinik-panel-sub000/internal/availability"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, department_id, first_name, last_name, title, phone, email,
	is_active, weekly_hours, slot_capacity, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var hours []byte
	err := row.Scan(&d.ID, &d.DepartmentID, &d.FirstName, &d.LastName, &d.Title,
		&d.Phone, &d.Email, &d.IsActive, &hours, &d.SlotCapacity,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(hours) > 0 {
		var wh availability.WeeklyHours
		if err := json.Unmarshal(hours, &wh); err != nil {
			return nil, fmt.Errorf("decode weekly_hours: %w", err)
		}
		d.WeeklyHours = &wh
	}
	return &d, nil
}

func encodeHours(wh *availability.WeeklyHours) ([]byte, error) {
	if wh == nil {
		return nil, nil
	}
	return json.Marshal(wh)
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	hours, err := encodeHours(d.WeeklyHours)
	if err != nil {
		return err
	}
	d.ID = uuid.New()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor (id, department_id, first_name, last_name, title, phone, email,
			is_active, weekly_hours, slot_capacity)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		d.ID, d.DepartmentID, d.FirstName, d.LastName, d.Title, d.Phone, d.Email,
		d.IsActive, hours, d.SlotCapacity)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	hours, err := encodeHours(d.WeeklyHours)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE doctor SET department_id=$2, first_name=$3, last_name=$4, title=$5,
			phone=$6, email=$7, is_active=$8, weekly_hours=$9, slot_capacity=$10,
			updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.DepartmentID, d.FirstName, d.LastName, d.Title, d.Phone, d.Email,
		d.IsActive, hours, d.SlotCapacity)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + cols + ` FROM doctor WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM doctor WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["name"]; ok {
		query += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d)`, idx, idx)
		countQuery += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d)`, idx, idx)
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["department"]; ok {
		query += fmt.Sprintf(` AND department_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND department_id = $%d`, idx)
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

	query += fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor WHERE department_id = $1`, departmentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM doctor WHERE department_id = $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		departmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}
