package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planforge/planforge/internal/core/domain"
)

// PlanRepository stores one plan per document. The plan body is a JSONB
// snapshot; rebuilds and reschedules replace it wholesale.
type PlanRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082602)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL UNIQUE,
	plan JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plans_document_id ON plans(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *PlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	body, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO plans (id, document_id, plan, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (document_id) DO UPDATE SET plan = EXCLUDED.plan
`, plan.ID, plan.DocumentID, body, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT plan
FROM plans
WHERE document_id = $1
`, documentID)

	var body []byte
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrPlanNotFound, "get plan", fmt.Errorf("document id %s", documentID))
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return &plan, nil
}
