package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceColumns = `id, title, description, key_services, icon_name, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.KeyServices,
		&s.IconName,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.KeyServices == nil {
		s.KeyServices = []string{}
	}
	return &s, nil
}

func (r *PgRepository) Create(ctx context.Context, svc *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, title, description, key_services, icon_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+serviceColumns+`
	`, svc.ID, svc.Title, svc.Description, svc.KeyServices, svc.IconName, svc.CreatedAt, svc.UpdatedAt)

	return scanService(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) GetByTitle(ctx context.Context, title string) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE lower(title) = lower($1)
	`, title)
	return scanService(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) Update(ctx context.Context, svc *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET title = $2,
		    description = $3,
		    key_services = $4,
		    icon_name = $5,
		    updated_at = $6
		WHERE id = $1
		RETURNING `+serviceColumns+`
	`, svc.ID, svc.Title, svc.Description, svc.KeyServices, svc.IconName, svc.UpdatedAt)

	return scanService(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) CountAppointments(ctx context.Context, serviceID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments WHERE service_id = $1
	`, serviceID).Scan(&count)
	return count, err
}
