package message

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, user_id, name, email, phone, body, created_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	var userID *uuid.UUID

	err := row.Scan(
		&m.ID,
		&userID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Body,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.UserID = userID
	return &m, nil
}

func (r *PgRepository) Create(ctx context.Context, m *Message) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (id, user_id, name, email, phone, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+messageColumns+`
	`, m.ID, m.UserID, m.Name, m.Email, m.Phone, m.Body, m.CreatedAt)

	return scanMessage(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE id = $1
	`, id)
	return scanMessage(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) Update(ctx context.Context, m *Message) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE messages
		SET name = $2,
		    email = $3,
		    phone = $4,
		    body = $5
		WHERE id = $1
		RETURNING `+messageColumns+`
	`, m.ID, m.Name, m.Email, m.Phone, m.Body)

	return scanMessage(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
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
