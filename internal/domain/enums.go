package domain

// DecisionOutcome is the closed set of hiring decisions the decision engine
// can produce.
type DecisionOutcome string

const (
	DecisionAutoAdvance  DecisionOutcome = "AUTO_ADVANCE"
	DecisionManualReview DecisionOutcome = "MANUAL_REVIEW"
	DecisionReject       DecisionOutcome = "REJECT"
)

// EvaluationStatus represents the lifecycle of an evaluation.
type EvaluationStatus string

const (
	EvaluationStatusPending   EvaluationStatus = "pending"
	EvaluationStatusCompleted EvaluationStatus = "completed"
	EvaluationStatusFailed    EvaluationStatus = "failed"
)

// ActionType identifies the notification dispatched after a decision.
type ActionType string

const (
	ActionInterviewInvitation ActionType = "EMAIL_INTERVIEW_INVITATION"
	ActionRejectionNotice     ActionType = "EMAIL_REJECTION_NOTICE"
)

// ExtractionTarget names the record type an extraction run produces.
type ExtractionTarget string

const (
	TargetResume         ExtractionTarget = "resume"
	TargetJobDescription ExtractionTarget = "job_description"
)

// DocumentKind distinguishes the two uploaded document roles.
type DocumentKind string

const (
	DocumentKindResume DocumentKind = "resume"
	DocumentKindJob    DocumentKind = "job"
)

// Audit event types recorded on the evaluation audit trail.
const (
	AuditEvaluationCreated   = "evaluation_created"
	AuditExtractionCompleted = "extraction_completed"
	AuditEvaluationScored    = "evaluation_scored"
	AuditDecisionMade        = "decision_made"
	AuditActionDispatched    = "action_dispatched"
	AuditEvaluationFailed    = "evaluation_failed"
)

// AllowedContentTypes lists the accepted upload MIME types.
var AllowedContentTypes = map[string]bool{
	"application/pdf":   true,
	"application/x-pdf": true,
}
