package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nefera/internal/domain"
	"nefera/internal/port"
)

type auditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new PostgreSQL-backed AuditRepository.
func NewAuditRepo(db *sqlx.DB) port.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Append(ctx context.Context, event *domain.AuditEvent) error {
	event.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, evaluation_id, event_type, request_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.EvaluationID, event.EventType, event.RequestID, event.Payload, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("auditRepo.Append: %w", err)
	}
	return nil
}

func (r *auditRepo) ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]domain.AuditEvent, error) {
	var events []domain.AuditEvent
	err := r.db.SelectContext(ctx, &events,
		`SELECT * FROM audit_events WHERE evaluation_id = $1 ORDER BY created_at ASC`,
		evaluationID)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByEvaluation: %w", err)
	}
	return events, nil
}
