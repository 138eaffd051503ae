package extract

import (
	"fmt"
	"strings"

	"nefera/internal/domain"
)

// Pipeline stages recorded in extraction metadata and failure reports.
const (
	StageHTTP            = "http"
	StageJSONParse       = "json_parse"
	StageJSONParseRetry  = "json_parse_retry"
	StageValidation      = "validation"
	StageValidationRetry = "validation_retry"
)

// Failure is one (backend, stage, message) triple from the cascade.
type Failure struct {
	Backend string `json:"backend"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s:%s:%s", f.Backend, f.Stage, f.Message)
}

// CascadeError aggregates the distinct failures seen across every backend.
// At most six triples are retained; the rest are counted as suppressed.
type CascadeError struct {
	Failures   []Failure
	Suppressed int
}

const maxReportedFailures = 6

// newCascadeError deduplicates the collected failures and caps the report.
func newCascadeError(failures []Failure) *CascadeError {
	seen := make(map[string]bool, len(failures))
	var unique []Failure
	for _, f := range failures {
		key := f.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, f)
	}

	suppressed := 0
	if len(unique) > maxReportedFailures {
		suppressed = len(unique) - maxReportedFailures
		unique = unique[:maxReportedFailures]
	}
	return &CascadeError{Failures: unique, Suppressed: suppressed}
}

func (e *CascadeError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.String())
	}
	detail := strings.Join(parts, " | ")
	if e.Suppressed > 0 {
		detail = fmt.Sprintf("%s | (+%d more)", detail, e.Suppressed)
	}
	if detail == "" {
		return domain.ErrAllBackendsExhausted.Error()
	}
	return fmt.Sprintf("%s: %s", domain.ErrAllBackendsExhausted.Error(), detail)
}

func (e *CascadeError) Unwrap() error {
	return domain.ErrAllBackendsExhausted
}
