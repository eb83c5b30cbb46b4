package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// PostgresStore persists handles in PostgreSQL. The primary key on the
// handle id enforces global uniqueness; concurrent creates race at the
// database and exactly one wins.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed handle store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied out-of-band by migrations; kept here as the reference
// shape for the integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS handles (
    id         TEXT PRIMARY KEY,
    actor_id   TEXT NOT NULL,
    kind       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS handles_actor_idx ON handles (actor_id);
`

func (s *PostgresStore) CreateIfFree(ctx context.Context, h *models.Handle) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO handles (id, actor_id, kind, created_at) VALUES ($1, $2, $3, $4)`,
		h.ID, h.ActorID, string(h.Kind), h.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create handle: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Handle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, actor_id, kind, created_at FROM handles WHERE id = $1`, id,
	)
	var h models.Handle
	var kind string
	if err := row.Scan(&h.ID, &h.ActorID, &kind, &h.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find handle: %w", err)
	}
	h.Kind = models.HandleKind(kind)
	return &h, nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID string) ([]*models.Handle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, kind, created_at FROM handles WHERE actor_id = $1 ORDER BY created_at, id`,
		actorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list handles: %w", err)
	}
	defer rows.Close()

	var out []*models.Handle
	for rows.Next() {
		var h models.Handle
		var kind string
		if err := rows.Scan(&h.ID, &h.ActorID, &kind, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan handle: %w", err)
		}
		h.Kind = models.HandleKind(kind)
		out = append(out, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate handles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteByActor(ctx context.Context, actorID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM handles WHERE actor_id = $1`, actorID)
	if err != nil {
		return 0, fmt.Errorf("delete handles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete handles: %w", err)
	}
	return int(n), nil
}
