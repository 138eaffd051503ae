package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	// ErrEmptyInput marks raw text that is empty after trimming. Never retried.
	ErrEmptyInput = errors.New("raw text must be non-empty")

	// ErrMissingRubric marks an evaluation request without a rubric.
	ErrMissingRubric = errors.New("rubric must be provided")

	// ErrRubricInvalid marks malformed rubric weights or thresholds. This is
	// an operator configuration error and is surfaced immediately.
	ErrRubricInvalid = errors.New("rubric is invalid")

	// ErrScoreInvalid marks a total score outside [0,100].
	ErrScoreInvalid = errors.New("total score is invalid")

	// ErrAllBackendsExhausted aggregates per-backend extraction failures once
	// every configured backend has been tried.
	ErrAllBackendsExhausted = errors.New("all extraction backends failed")

	// ErrFallbackExhausted marks the rule-based extractor failing to infer a
	// required field (job-description required skills).
	ErrFallbackExhausted = errors.New("fallback extractor could not infer required fields")

	ErrExtractionFailed = errors.New("extraction failed")
)
