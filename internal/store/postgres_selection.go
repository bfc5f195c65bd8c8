package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectionColumns = `id, sourcing_event_id, winner_vendor_id,
	total_score, weighted_score,
	status, approval_status,
	selection_date, selected_by, justification,
	submitted_by, submission_date, approved_by, approval_date, rejection_reason,
	organization_id, created_at, updated_at`

// CreateWinnerSelection inserts a new selection inside a transaction that
// first checks for an active (pending or approved) record on the same
// event. A partial unique index on
// (sourcing_event_id) WHERE approval_status IN ('pending_approval','approved')
// backs the same invariant at the schema level.
func (s *PostgresStore) CreateWinnerSelection(ctx context.Context, sel *WinnerSelection) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM tender_winner_selections
		WHERE sourcing_event_id = $1
		  AND approval_status IN ('pending_approval', 'approved')`,
		sel.SourcingEventID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check active selection: %w", err)
	}
	if existing > 0 {
		return ErrActiveSelectionExists
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO tender_winner_selections (sourcing_event_id, winner_vendor_id,
			total_score, weighted_score,
			status, approval_status,
			selection_date, selected_by, justification,
			submitted_by, submission_date,
			organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		sel.SourcingEventID, sel.WinnerVendorID,
		sel.TotalScore, sel.WeightedScore,
		sel.Status, sel.ApprovalStatus,
		sel.SelectionDate, sel.SelectedBy, sel.Justification,
		sel.SubmittedBy, sel.SubmissionDate,
		sel.OrganizationID,
	).Scan(&sel.ID, &sel.CreatedAt, &sel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert winner selection: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetWinnerSelection(ctx context.Context, id uuid.UUID) (*WinnerSelection, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+selectionColumns+`
		FROM tender_winner_selections WHERE id = $1`, id)
	sel, err := scanSelection(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// GetSelectionByEvent returns the most recent selection for an event, or
// nil when none exists. Rejected records are retained, so the latest row
// reflects the current workflow state.
func (s *PostgresStore) GetSelectionByEvent(ctx context.Context, eventID uuid.UUID) (*WinnerSelection, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+selectionColumns+`
		FROM tender_winner_selections
		WHERE sourcing_event_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, eventID)
	sel, err := scanSelection(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *PostgresStore) ListPendingSelections(ctx context.Context, organizationID string) ([]*WinnerSelection, error) {
	query := `SELECT ` + selectionColumns + `
		FROM tender_winner_selections
		WHERE approval_status = 'pending_approval'`
	args := []interface{}{}
	if organizationID != "" {
		query += " AND organization_id = $1"
		args = append(args, organizationID)
	}
	query += " ORDER BY submission_date ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sels []*WinnerSelection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, rows.Err()
}

// UpdateWinnerSelection applies an approval transition. The status
// predicate makes the pending check atomic: a row that another request
// already finalized matches zero rows and the transition is refused,
// keeping approved/rejected terminal under concurrency.
func (s *PostgresStore) UpdateWinnerSelection(ctx context.Context, sel *WinnerSelection) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tender_winner_selections SET
			approval_status = $2,
			approved_by = $3, approval_date = $4, rejection_reason = $5,
			justification = $6,
			updated_at = now()
		WHERE id = $1
		  AND approval_status = 'pending_approval'`,
		sel.ID, sel.ApprovalStatus,
		sel.ApprovedBy, sel.ApprovalDate, sel.RejectionReason,
		sel.Justification,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrSelectionNotPending
	}
	return nil
}

func scanSelection(row pgx.Row) (*WinnerSelection, error) {
	sel := &WinnerSelection{}
	var justification, approvedBy, rejectionReason, orgID sql.NullString
	var approvalDate sql.NullTime
	if err := row.Scan(
		&sel.ID, &sel.SourcingEventID, &sel.WinnerVendorID,
		&sel.TotalScore, &sel.WeightedScore,
		&sel.Status, &sel.ApprovalStatus,
		&sel.SelectionDate, &sel.SelectedBy, &justification,
		&sel.SubmittedBy, &sel.SubmissionDate, &approvedBy, &approvalDate, &rejectionReason,
		&orgID, &sel.CreatedAt, &sel.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if justification.Valid {
		sel.Justification = justification.String
	}
	if approvedBy.Valid {
		sel.ApprovedBy = approvedBy.String
	}
	if rejectionReason.Valid {
		sel.RejectionReason = rejectionReason.String
	}
	if orgID.Valid {
		sel.OrganizationID = orgID.String
	}
	sel.ApprovalDate = touchTime(approvalDate)
	return sel, nil
}
