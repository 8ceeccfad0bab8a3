package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/merchguard/merchguard/engine/domain"
)

const checksSchema = `
CREATE TABLE IF NOT EXISTS checks (
	id              UUID PRIMARY KEY,
	input_text      TEXT NOT NULL,
	output_language TEXT NOT NULL,
	status          TEXT NOT NULL,
	error           TEXT NOT NULL DEFAULT '',
	analysis        JSONB,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS checks_created_at_idx ON checks (created_at DESC);
`

// PostgresStore persists check records in Postgres. The analysis payload
// is stored as JSONB so the schema does not chase the result model.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the checks table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, checksSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure checks schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, check Check) error {
	analysis, err := marshalAnalysis(check.Analysis)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO checks (id, input_text, output_language, status, error, analysis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		check.ID, check.InputText, check.OutputLanguage, check.Status,
		check.Error, analysis, check.CreatedAt, check.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create check %s: %w", check.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Check, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, input_text, output_language, status, error, analysis, created_at, updated_at
		FROM checks WHERE id = $1`, id)
	check, err := scanCheck(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Check{}, fmt.Errorf("%w: check %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return Check{}, fmt.Errorf("get check %s: %w", id, err)
	}
	return check, nil
}

func (s *PostgresStore) Update(ctx context.Context, check Check) error {
	analysis, err := marshalAnalysis(check.Analysis)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE checks SET status = $2, error = $3, analysis = $4, updated_at = $5
		WHERE id = $1`,
		check.ID, check.Status, check.Error, analysis, check.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update check %s: %w", check.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: check %s", domain.ErrNotFound, check.ID)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOpts) ([]Check, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, input_text, output_language, status, error, analysis, created_at, updated_at
		FROM checks ORDER BY created_at DESC OFFSET $1 LIMIT $2`, opts.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("list checks: %w", err)
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

func marshalAnalysis(a *domain.TradeSafetyAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}

func scanCheck(row pgx.Row) (Check, error) {
	var (
		check    Check
		analysis []byte
	)
	err := row.Scan(&check.ID, &check.InputText, &check.OutputLanguage,
		&check.Status, &check.Error, &analysis, &check.CreatedAt, &check.UpdatedAt)
	if err != nil {
		return Check{}, err
	}
	if len(analysis) > 0 {
		var a domain.TradeSafetyAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return Check{}, fmt.Errorf("unmarshal analysis: %w", err)
		}
		check.Analysis = &a
	}
	return check, nil
}
