package appointment

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

const cols = `id, patient_id, doctor_id, department_id, date, time, status, priority,
	note, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.DepartmentID, &a.Date,
		&a.Time, &a.Status, &a.Priority, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

// lockSlot takes a transaction-scoped advisory lock on the (doctor,
// date, time) key so that concurrent writers to the same slot are
// serialized, then checks the live occupancy against the configured
// capacity. excludeID skips the row being updated.
func lockSlot(ctx context.Context, tx pgx.Tx, a *Appointment, capacity int, excludeID uuid.UUID) error {
	key := fmt.Sprintf("%s|%s|%s", a.DoctorID, a.Date.Format("2006-01-02"), a.Time)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return err
	}

	var count int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND date = $2 AND time = $3
			AND status <> 'cancelled' AND id <> $4`,
		a.DoctorID, a.Date, a.Time, excludeID).Scan(&count)
	if err != nil {
		return err
	}
	if count >= capacity {
		return ErrSlotTaken
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment, capacity int) error {
	a.ID = uuid.New()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockSlot(ctx, tx, a, capacity, uuid.Nil); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, department_id, date, time,
			status, priority, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.DepartmentID, a.Date, a.Time,
		a.Status, a.Priority, a.Note)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment, capacity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// A cancellation releases the slot, so only live rows are checked.
	if a.Status != StatusCancelled {
		if err := lockSlot(ctx, tx, a, capacity, a.ID); err != nil {
			return err
		}
	}
	_, err = tx.Exec(ctx, `
		UPDATE appointment SET patient_id=$2, doctor_id=$3, department_id=$4, date=$5,
			time=$6, status=$7, priority=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.DepartmentID, a.Date, a.Time,
		a.Status, a.Priority, a.Note)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointment SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + cols + ` FROM appointment WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointment WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["doctor"]; ok {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient"]; ok {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["department"]; ok {
		query += fmt.Sprintf(` AND department_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND department_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["date"]; ok {
		query += fmt.Sprintf(` AND date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND date = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date DESC, time LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM appointment WHERE doctor_id = $1 AND date = $2 ORDER BY time`,
		doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM appointment WHERE patient_id = $1 ORDER BY date DESC, time LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListDay(ctx context.Context, date time.Time, doctorID *uuid.UUID) ([]*DayRow, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.department_id, a.date, a.time,
			a.status, a.priority, a.note, a.created_at, a.updated_at,
			p.first_name || ' ' || p.last_name AS patient_name,
			p.national_id AS patient_national_id,
			d.first_name || ' ' || d.last_name AS doctor_name,
			dep.name AS department_name
		FROM appointment a
		JOIN patient p ON p.id = a.patient_id
		JOIN doctor d ON d.id = a.doctor_id
		JOIN department dep ON dep.id = a.department_id
		WHERE a.date = $1`
	args := []interface{}{date}
	if doctorID != nil {
		query += ` AND a.doctor_id = $2`
		args = append(args, *doctorID)
	}
	query += ` ORDER BY a.time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*DayRow
	for rows.Next() {
		var dr DayRow
		if err := rows.Scan(&dr.ID, &dr.PatientID, &dr.DoctorID, &dr.DepartmentID,
			&dr.Date, &dr.Time, &dr.Status, &dr.Priority, &dr.Note,
			&dr.CreatedAt, &dr.UpdatedAt,
			&dr.PatientName, &dr.PatientNationalID, &dr.DoctorName, &dr.DepartmentName); err != nil {
			return nil, err
		}
		items = append(items, &dr)
	}
	return items, rows.Err()
}
