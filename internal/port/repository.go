package port

import (
	"context"

	"github.com/google/uuid"

	"nefera/internal/domain"
)

// DocumentRepository persists uploaded document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
}

// EvaluationRepository persists evaluation runs.
type EvaluationRepository interface {
	Create(ctx context.Context, ev *domain.Evaluation) error
	Update(ctx context.Context, ev *domain.Evaluation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error)
	List(ctx context.Context, offset, limit int) ([]domain.Evaluation, int, error)
}

// AuditRepository appends evaluation audit events.
type AuditRepository interface {
	Append(ctx context.Context, event *domain.AuditEvent) error
	ListByEvaluation(ctx context.Context, evaluationID uuid.UUID) ([]domain.AuditEvent, error)
}
