package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nefera/internal/domain"
	"nefera/internal/port"
)

type evaluationRepo struct {
	db *sqlx.DB
}

// NewEvaluationRepo creates a new PostgreSQL-backed EvaluationRepository.
func NewEvaluationRepo(db *sqlx.DB) port.EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, ev *domain.Evaluation) error {
	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, resume_document_id, job_document_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.ResumeDocumentID, ev.JobDocumentID, ev.Status, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("evaluationRepo.Create: %w", err)
	}
	return nil
}

func (r *evaluationRepo) Update(ctx context.Context, ev *domain.Evaluation) error {
	ev.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE evaluations SET
			status = $2,
			total_score = $3,
			decision = $4,
			decision_reason = $5,
			decision_confidence = $6,
			confidence_score = $7,
			breakdown = $8,
			summary = $9,
			diagnostics = $10,
			action_type = $11,
			error = $12,
			updated_at = $13
		 WHERE id = $1`,
		ev.ID, ev.Status, ev.TotalScore, ev.Decision, ev.DecisionReason,
		ev.DecisionConfidence, ev.ConfidenceScore, ev.Breakdown, ev.Summary,
		ev.Diagnostics, ev.ActionType, ev.Error, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("evaluationRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("evaluationRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *evaluationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	var ev domain.Evaluation
	err := r.db.GetContext(ctx, &ev, "SELECT * FROM evaluations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("evaluationRepo.GetByID: %w", err)
	}
	return &ev, nil
}

func (r *evaluationRepo) List(ctx context.Context, offset, limit int) ([]domain.Evaluation, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM evaluations")
	if err != nil {
		return nil, 0, fmt.Errorf("evaluationRepo.List count: %w", err)
	}

	var evs []domain.Evaluation
	err = r.db.SelectContext(ctx, &evs,
		`SELECT * FROM evaluations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("evaluationRepo.List: %w", err)
	}
	return evs, total, nil
}
