package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invitation-backend/internal/domains/invitation"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
)

// PostgresRepository stores each invitation as one JSONB document in the
// invitations table, addressed by a generated xid.
//
//	CREATE TABLE IF NOT EXISTS invitations (
//	    id         TEXT PRIMARY KEY,
//	    data       JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    expires_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, inv *invitation.PersistedInvitation) (string, error) {
	id := xid.New().String()

	record := *inv
	record.ID = id
	data, err := json.Marshal(&record)
	if err != nil {
		return "", fmt.Errorf("marshal invitation: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO invitations (id, data, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		id, data, record.CreatedAt, record.ExpiresAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert invitation: %v", invitation.ErrUnavailable, err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*invitation.PersistedInvitation, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM invitations WHERE id = $1`, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invitation.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select invitation: %v", invitation.ErrUnavailable, err)
	}

	var inv invitation.PersistedInvitation
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("unmarshal invitation %s: %w", id, err)
	}
	inv.ID = id
	return &inv, nil
}
