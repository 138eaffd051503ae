package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the stored metadata for an uploaded resume or job PDF.
type Document struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Kind        DocumentKind `db:"kind" json:"kind"`
	Filename    string       `db:"filename" json:"filename"`
	ContentType string       `db:"content_type" json:"content_type"`
	SizeBytes   int64        `db:"size_bytes" json:"size_bytes"`
	SHA256      string       `db:"sha256" json:"sha256"`
	StorageKey  string       `db:"storage_key" json:"storage_key"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// Evaluation is a persisted evaluation run.
type Evaluation struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	ResumeDocumentID   uuid.UUID        `db:"resume_document_id" json:"resume_document_id"`
	JobDocumentID      uuid.UUID        `db:"job_document_id" json:"job_document_id"`
	Status             EvaluationStatus `db:"status" json:"status"`
	TotalScore         *float64         `db:"total_score" json:"total_score,omitempty"`
	Decision           *DecisionOutcome `db:"decision" json:"decision,omitempty"`
	DecisionReason     string           `db:"decision_reason" json:"decision_reason,omitempty"`
	DecisionConfidence *float64         `db:"decision_confidence" json:"decision_confidence,omitempty"`
	ConfidenceScore    *float64         `db:"confidence_score" json:"confidence_score,omitempty"`
	Breakdown          json.RawMessage  `db:"breakdown" json:"breakdown,omitempty"`
	Summary            json.RawMessage  `db:"summary" json:"summary,omitempty"`
	Diagnostics        json.RawMessage  `db:"diagnostics" json:"diagnostics,omitempty"`
	ActionType         *ActionType      `db:"action_type" json:"action_type,omitempty"`
	Error              string           `db:"error" json:"error,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// AuditEvent is a single entry on an evaluation's audit trail.
type AuditEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EvaluationID uuid.UUID       `db:"evaluation_id" json:"evaluation_id"`
	EventType    string          `db:"event_type" json:"event_type"`
	RequestID    string          `db:"request_id" json:"request_id,omitempty"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
