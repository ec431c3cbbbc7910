package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// The table holds at most one row, keyed by id = 1.

func (r *repoPG) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	var hours []byte
	err := r.pool.QueryRow(ctx, `
		SELECT clinic_name, weekly_hours, slot_duration_minutes, slot_capacity, updated_at
		FROM clinic_settings WHERE id = 1`).
		Scan(&s.ClinicName, &hours, &s.SlotDurationMinutes, &s.SlotCapacity, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hours, &s.WeeklyHours); err != nil {
		return nil, fmt.Errorf("decode weekly_hours: %w", err)
	}
	return &s, nil
}

func (r *repoPG) Save(ctx context.Context, s *Settings) error {
	hours, err := json.Marshal(s.WeeklyHours)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO clinic_settings (id, clinic_name, weekly_hours, slot_duration_minutes, slot_capacity)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			weekly_hours = EXCLUDED.weekly_hours,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			slot_capacity = EXCLUDED.slot_capacity,
			updated_at = NOW()`,
		s.ClinicName, hours, s.SlotDurationMinutes, s.SlotCapacity)
	return err
}
