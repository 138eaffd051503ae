package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"nefera/internal/config"
	"nefera/internal/domain"
	"nefera/internal/evaluation"
	"nefera/internal/extract"
	"nefera/internal/pdftext"
	"nefera/internal/port"
	"nefera/internal/schema"
)

// UploadedFile is one multipart PDF in a run request.
type UploadedFile struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// RunInput is the DTO for evaluation run requests.
type RunInput struct {
	RequestID string
	Resume    UploadedFile
	Job       UploadedFile
}

// EvaluationService defines the evaluation pipeline contract.
type EvaluationService interface {
	Run(ctx context.Context, input RunInput) (*domain.Evaluation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error)
	List(ctx context.Context, offset, limit int) ([]domain.Evaluation, int, error)
	AuditTrail(ctx context.Context, evaluationID uuid.UUID) ([]domain.AuditEvent, error)
}

type evaluationService struct {
	docRepo      port.DocumentRepository
	evalRepo     port.EvaluationRepository
	auditRepo    port.AuditRepository
	storage      port.ObjectStorage
	extractor    *extract.Extractor
	orchestrator *evaluation.Orchestrator
	s3cfg        *config.S3Config
	rubricPath   string
}

// NewEvaluationService creates a new EvaluationService implementation.
func NewEvaluationService(
	docRepo port.DocumentRepository,
	evalRepo port.EvaluationRepository,
	auditRepo port.AuditRepository,
	storage port.ObjectStorage,
	extractor *extract.Extractor,
	orchestrator *evaluation.Orchestrator,
	s3cfg *config.S3Config,
	rubricPath string,
) EvaluationService {
	return &evaluationService{
		docRepo:      docRepo,
		evalRepo:     evalRepo,
		auditRepo:    auditRepo,
		storage:      storage,
		extractor:    extractor,
		orchestrator: orchestrator,
		s3cfg:        s3cfg,
		rubricPath:   rubricPath,
	}
}

// extractionDiagnostics is the per-run diagnostics blob persisted on the
// evaluation row.
type extractionDiagnostics struct {
	Resume         *extract.Meta `json:"resume,omitempty"`
	Job            *extract.Meta `json:"job,omitempty"`
	ResumeFallback bool          `json:"resume_fallback"`
	JobFallback    bool          `json:"job_fallback"`
}

func (s *evaluationService) Run(ctx context.Context, input RunInput) (*domain.Evaluation, error) {
	rubric, err := LoadRubric(s.rubricPath)
	if err != nil {
		return nil, err
	}

	resumeDoc, resumeData, err := s.storeDocument(ctx, domain.DocumentKindResume, input.Resume)
	if err != nil {
		return nil, err
	}
	jobDoc, jobData, err := s.storeDocument(ctx, domain.DocumentKindJob, input.Job)
	if err != nil {
		return nil, err
	}

	ev := &domain.Evaluation{
		ID:               uuid.New(),
		ResumeDocumentID: resumeDoc.ID,
		JobDocumentID:    jobDoc.ID,
		Status:           domain.EvaluationStatusPending,
	}
	if err := s.evalRepo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("creating evaluation: %w", err)
	}
	s.audit(ctx, ev.ID, domain.AuditEvaluationCreated, input.RequestID, map[string]interface{}{
		"resume_document_id": resumeDoc.ID,
		"job_document_id":    jobDoc.ID,
	})

	log.Printf("evaluationService.Run: evaluation %s created (resume=%s job=%s)", ev.ID, resumeDoc.ID, jobDoc.ID)

	resumeText, err := pdftext.Extract(resumeData)
	if err != nil {
		return s.fail(ctx, ev, input.RequestID, fmt.Errorf("resume text: %w", err))
	}
	jobText, err := pdftext.Extract(jobData)
	if err != nil {
		return s.fail(ctx, ev, input.RequestID, fmt.Errorf("job text: %w", err))
	}

	resume, job, diag, err := s.extractRecords(ctx, resumeText, jobText)
	if err != nil {
		return s.fail(ctx, ev, input.RequestID, err)
	}
	s.audit(ctx, ev.ID, domain.AuditExtractionCompleted, input.RequestID, diag)

	resume, job = enrichDomains(resume, job, resumeText, jobText)

	outcome, err := s.orchestrator.Run(ctx, evaluation.Input{
		Resume:             resume,
		Job:                job,
		Rubric:             rubric,
		ResumeRawText:      resumeText,
		JobRawText:         jobText,
		ResumeFromFallback: diag.ResumeFallback,
		JobFromFallback:    diag.JobFallback,
	})
	if err != nil {
		return s.fail(ctx, ev, input.RequestID, err)
	}

	s.audit(ctx, ev.ID, domain.AuditEvaluationScored, input.RequestID, map[string]interface{}{
		"total_score":      outcome.TotalScore,
		"confidence_score": outcome.ConfidenceScore,
	})
	s.audit(ctx, ev.ID, domain.AuditDecisionMade, input.RequestID, map[string]interface{}{
		"decision":            outcome.Decision,
		"decision_reason":     outcome.DecisionReason,
		"decision_confidence": outcome.DecisionConfidence,
	})
	if outcome.ActionTriggered {
		s.audit(ctx, ev.ID, domain.AuditActionDispatched, input.RequestID, map[string]interface{}{
			"action_type": outcome.ActionType,
		})
	}

	applyOutcome(ev, outcome, diag)
	if err := s.evalRepo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("updating evaluation: %w", err)
	}

	log.Printf("evaluationService.Run: evaluation %s completed score=%.2f decision=%s", ev.ID, outcome.TotalScore, outcome.Decision)
	return ev, nil
}

// extractRecords runs the backend cascade for both documents, falling back
// to the heuristic extractor when a cascade is exhausted. Any other cascade
// outcome is fatal.
func (s *evaluationService) extractRecords(ctx context.Context, resumeText, jobText string) (schema.StructuredResume, schema.StructuredJobDescription, *extractionDiagnostics, error) {
	diag := &extractionDiagnostics{}

	resume, resumeMeta, err := s.extractor.ExtractResume(ctx, resumeText)
	diag.Resume = resumeMeta
	if err != nil {
		if !errors.Is(err, domain.ErrAllBackendsExhausted) {
			return schema.StructuredResume{}, schema.StructuredJobDescription{}, diag, err
		}
		log.Printf("evaluationService.extractRecords: resume cascade exhausted, using heuristic fallback: %v", err)
		resume, err = extract.HeuristicResume(resumeText)
		if err != nil {
			return schema.StructuredResume{}, schema.StructuredJobDescription{}, diag, err
		}
		diag.ResumeFallback = true
	}

	job, jobMeta, err := s.extractor.ExtractJob(ctx, jobText)
	diag.Job = jobMeta
	if err != nil {
		if !errors.Is(err, domain.ErrAllBackendsExhausted) {
			return schema.StructuredResume{}, schema.StructuredJobDescription{}, diag, err
		}
		log.Printf("evaluationService.extractRecords: job cascade exhausted, using heuristic fallback: %v", err)
		job, err = extract.HeuristicJob(jobText)
		if err != nil {
			return schema.StructuredResume{}, schema.StructuredJobDescription{}, diag, err
		}
		diag.JobFallback = true
	}

	return resume, job, diag, nil
}

// enrichDomains infers a domain from raw text when the records lack one.
// The records are value types; enrichment produces derived copies.
func enrichDomains(resume schema.StructuredResume, job schema.StructuredJobDescription, resumeText, jobText string) (schema.StructuredResume, schema.StructuredJobDescription) {
	if job.Domain == nil {
		if d := extract.InferDomain(jobText); d != "" {
			job = job.WithDomain(d)
		}
	}
	if d := extract.InferDomain(resumeText); d != "" && !resume.HasDomain(d) {
		resume = resume.WithDomainAppended(d)
	}
	return resume, job
}

// storeDocument validates one uploaded PDF, uploads it to object storage,
// and persists its metadata. The full file bytes are returned for text
// extraction.
func (s *evaluationService) storeDocument(ctx context.Context, kind domain.DocumentKind, upload UploadedFile) (*domain.Document, []byte, error) {
	if upload.File == nil || upload.Header == nil {
		return nil, nil, domain.ErrEmptyInput
	}

	ext := strings.ToLower(filepath.Ext(upload.Header.Filename))
	if ext != ".pdf" {
		return nil, nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if upload.Header.Size > maxBytes {
		return nil, nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(upload.File, maxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, nil, domain.ErrEmptyInput
	}

	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}
	if !domain.AllowedContentTypes[http.DetectContentType(probe)] {
		return nil, nil, domain.ErrUnsupportedFileType
	}

	sum := sha256.Sum256(data)
	docID := uuid.New()
	storageKey := fmt.Sprintf("documents/%s/%s/%s", kind, docID, upload.Header.Filename)

	doc := &domain.Document{
		ID:          docID,
		Kind:        kind,
		Filename:    upload.Header.Filename,
		ContentType: "application/pdf",
		SizeBytes:   int64(len(data)),
		SHA256:      hex.EncodeToString(sum[:]),
		StorageKey:  storageKey,
	}

	log.Printf("evaluationService.storeDocument: uploading %s %s (%d bytes)", kind, upload.Header.Filename, len(data))

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         storageKey,
		Body:        bytes.NewReader(data),
		ContentType: "application/pdf",
	}); err != nil {
		log.Printf("evaluationService.storeDocument: upload failed for %s: %v", docID, err)
		return nil, nil, domain.ErrUploadFailed
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("creating document metadata: %w", err)
	}
	return doc, data, nil
}

// fail marks the evaluation failed, records the audit event, and returns the
// original pipeline error.
func (s *evaluationService) fail(ctx context.Context, ev *domain.Evaluation, requestID string, cause error) (*domain.Evaluation, error) {
	log.Printf("evaluationService.Run: evaluation %s failed: %v", ev.ID, cause)
	ev.Status = domain.EvaluationStatusFailed
	ev.Error = cause.Error()
	if err := s.evalRepo.Update(ctx, ev); err != nil {
		log.Printf("evaluationService.fail: updating evaluation %s: %v", ev.ID, err)
	}
	s.audit(ctx, ev.ID, domain.AuditEvaluationFailed, requestID, map[string]interface{}{
		"error": cause.Error(),
	})
	return nil, cause
}

// audit appends one event, logging rather than failing the run if the
// append itself errors.
func (s *evaluationService) audit(ctx context.Context, evaluationID uuid.UUID, eventType, requestID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("evaluationService.audit: marshaling %s payload: %v", eventType, err)
		data = []byte(`{}`)
	}
	event := &domain.AuditEvent{
		ID:           uuid.New(),
		EvaluationID: evaluationID,
		EventType:    eventType,
		RequestID:    requestID,
		Payload:      data,
	}
	if err := s.auditRepo.Append(ctx, event); err != nil {
		log.Printf("evaluationService.audit: appending %s: %v", eventType, err)
	}
}

// applyOutcome copies the orchestrator outcome onto the evaluation row.
func applyOutcome(ev *domain.Evaluation, outcome *evaluation.Outcome, diag *extractionDiagnostics) {
	total := outcome.TotalScore
	decision := outcome.Decision
	decisionConfidence := outcome.DecisionConfidence
	confidence := outcome.ConfidenceScore

	ev.Status = domain.EvaluationStatusCompleted
	ev.TotalScore = &total
	ev.Decision = &decision
	ev.DecisionReason = outcome.DecisionReason
	ev.DecisionConfidence = &decisionConfidence
	ev.ConfidenceScore = &confidence
	ev.ActionType = outcome.ActionType

	if data, err := json.Marshal(outcome.Breakdown); err == nil {
		ev.Breakdown = data
	}
	if outcome.Summary != nil {
		if data, err := json.Marshal(outcome.Summary); err == nil {
			ev.Summary = data
		}
	}
	if data, err := json.Marshal(diag); err == nil {
		ev.Diagnostics = data
	}
}

func (s *evaluationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	return s.evalRepo.GetByID(ctx, id)
}

func (s *evaluationService) List(ctx context.Context, offset, limit int) ([]domain.Evaluation, int, error) {
	return s.evalRepo.List(ctx, offset, limit)
}

func (s *evaluationService) AuditTrail(ctx context.Context, evaluationID uuid.UUID) ([]domain.AuditEvent, error) {
	if _, err := s.evalRepo.GetByID(ctx, evaluationID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListByEvaluation(ctx, evaluationID)
}
