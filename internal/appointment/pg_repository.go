package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, user_id, name, email, phone, service_id, doctor_id,
		date, time, scheduled_at, status, details,
		completed_at, cancelled_at, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var userID, doctorID *uuid.UUID
	var completedAt, cancelledAt *time.Time

	err := row.Scan(
		&a.ID,
		&userID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.ServiceID,
		&doctorID,
		&a.Date,
		&a.Time,
		&a.ScheduledAt,
		&a.Status,
		&a.Details,
		&completedAt,
		&cancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.UserID = userID
	a.DoctorID = doctorID
	a.CompletedAt = completedAt
	a.CancelledAt = cancelledAt
	return &a, nil
}

func (r *PgRepository) collect(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) Create(ctx context.Context, apt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, user_id, name, email, phone, service_id, doctor_id,
			date, time, scheduled_at, status, details,
			completed_at, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+appointmentColumns+`
	`, apt.ID, apt.UserID, apt.Name, apt.Email, apt.Phone, apt.ServiceID, apt.DoctorID,
		apt.Date, apt.Time, apt.ScheduledAt, apt.Status, apt.Details,
		apt.CompletedAt, apt.CancelledAt, apt.CreatedAt, apt.UpdatedAt)

	return scanAppointment(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	if filter.Status != nil {
		rows, err := r.pool.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			WHERE status = $1
			ORDER BY scheduled_at DESC
		`, *filter.Status)
		if err != nil {
			return nil, err
		}
		return r.collect(rows)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY scheduled_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PgRepository) Update(ctx context.Context, apt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET user_id = $2,
		    name = $3,
		    email = $4,
		    phone = $5,
		    service_id = $6,
		    doctor_id = $7,
		    date = $8,
		    time = $9,
		    scheduled_at = $10,
		    status = $11,
		    details = $12,
		    completed_at = $13,
		    cancelled_at = $14,
		    updated_at = $15
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, apt.ID, apt.UserID, apt.Name, apt.Email, apt.Phone, apt.ServiceID, apt.DoctorID,
		apt.Date, apt.Time, apt.ScheduledAt, apt.Status, apt.Details,
		apt.CompletedAt, apt.CancelledAt, apt.UpdatedAt)

	return scanAppointment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) FindActiveByEmail(ctx context.Context, email string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE lower(email) = lower($1)
		  AND status IN ('pending', 'postponed')
	`, email)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PgRepository) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND date = $2
		  AND status <> 'cancelled'
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PgRepository) ServiceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM services WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) FindUserIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (r *PgRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	completedTag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE status = 'completed'
		  AND completed_at IS NOT NULL
		  AND completed_at < $1
	`, cutoff)
	if err != nil {
		return 0, 0, err
	}

	cancelledTag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE status = 'cancelled'
		  AND cancelled_at IS NOT NULL
		  AND cancelled_at < $1
	`, cutoff)
	if err != nil {
		return completedTag.RowsAffected(), 0, err
	}

	return completedTag.RowsAffected(), cancelledTag.RowsAffected(), nil
}
