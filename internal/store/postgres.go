package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lead-summarizer/internal/models"

	"github.com/lib/pq"
)

// Postgres stores documents in a jsonb column keyed by text.
type Postgres struct {
	db    *sql.DB
	table string
}

func NewPostgres(db *sql.DB, table string) *Postgres {
	return &Postgres{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the document table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	document JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, p.table))
	if err != nil {
		return fmt.Errorf("failed to create document table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (models.Document, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT document FROM %s WHERE key = $1`, p.table), key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDocument(data)
}

func (p *Postgres) Upsert(ctx context.Context, key string, doc models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (key, document, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`, p.table),
		key, data,
	)
	return err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
