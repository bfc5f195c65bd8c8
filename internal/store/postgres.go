package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const evaluationColumns = `id, sourcing_event_id, vendor_id, criteria_name,
	ai_score, manual_score, weight,
	justification, scored_by,
	organization_id, created_at, updated_at`

func (s *PostgresStore) CreateEvaluation(ctx context.Context, e *Evaluation) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO tender_evaluations (sourcing_event_id, vendor_id, criteria_name,
			ai_score, weight, justification, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		e.SourcingEventID, e.VendorID, e.CriteriaName,
		e.AIScore, e.Weight, e.Justification, e.OrganizationID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+evaluationColumns+`
		FROM tender_evaluations WHERE id = $1`, id)
	e, err := scanEvaluation(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]*Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM tender_evaluations WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.SourcingEventID != nil {
		n++
		query += fmt.Sprintf(" AND sourcing_event_id = $%d", n)
		args = append(args, *filter.SourcingEventID)
	}
	if filter.VendorID != "" {
		n++
		query += fmt.Sprintf(" AND vendor_id = $%d", n)
		args = append(args, filter.VendorID)
	}
	if filter.CriteriaName != "" {
		n++
		query += fmt.Sprintf(" AND criteria_name = $%d", n)
		args = append(args, filter.CriteriaName)
	}

	// Stable matrix order: vendor then criterion seed order.
	query += " ORDER BY vendor_id ASC, created_at ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

func (s *PostgresStore) UpdateEvaluationScore(ctx context.Context, id uuid.UUID, manualScore *float64, scoredBy string) (*Evaluation, error) {
	var by interface{}
	if manualScore != nil {
		by = scoredBy
	} else {
		by = nil // clearing the score clears attribution too
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE tender_evaluations
		SET manual_score = $2, scored_by = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+evaluationColumns, id, manualScore, by)
	e, err := scanEvaluation(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanEvaluation(row pgx.Row) (*Evaluation, error) {
	e := &Evaluation{}
	var justification, scoredBy, orgID sql.NullString
	var aiScore, manualScore sql.NullFloat64
	if err := row.Scan(
		&e.ID, &e.SourcingEventID, &e.VendorID, &e.CriteriaName,
		&aiScore, &manualScore, &e.Weight,
		&justification, &scoredBy,
		&orgID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	applyEvaluationNullables(e, aiScore, manualScore, justification, scoredBy, orgID)
	return e, nil
}

func scanEvaluations(rows pgx.Rows) ([]*Evaluation, error) {
	var evals []*Evaluation
	for rows.Next() {
		e := &Evaluation{}
		var justification, scoredBy, orgID sql.NullString
		var aiScore, manualScore sql.NullFloat64
		if err := rows.Scan(
			&e.ID, &e.SourcingEventID, &e.VendorID, &e.CriteriaName,
			&aiScore, &manualScore, &e.Weight,
			&justification, &scoredBy,
			&orgID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		applyEvaluationNullables(e, aiScore, manualScore, justification, scoredBy, orgID)
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

func applyEvaluationNullables(e *Evaluation,
	aiScore, manualScore sql.NullFloat64,
	justification, scoredBy, orgID sql.NullString,
) {
	if aiScore.Valid {
		v := aiScore.Float64
		e.AIScore = &v
	}
	if manualScore.Valid {
		v := manualScore.Float64
		e.ManualScore = &v
	}
	if justification.Valid {
		e.Justification = justification.String
	}
	if scoredBy.Valid {
		e.ScoredBy = scoredBy.String
	}
	if orgID.Valid {
		e.OrganizationID = orgID.String
	}
}

// touchTime normalizes a nullable timestamp column.
func touchTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
