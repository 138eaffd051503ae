// Package extract turns raw resume/job text into canonical structured
// records via an ordered cascade of chat backends with a layered
// parse/repair/validate retry protocol.
package extract

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"nefera/internal/domain"
	"nefera/internal/port"
	"nefera/internal/schema"
)

// maxInputChars bounds the text submitted to any backend, to cap cost and
// latency.
const maxInputChars = 12000

// Extractor runs the extraction cascade over a fixed, ordered backend list.
// Backends are tried one at a time; the first validated record wins.
type Extractor struct {
	backends []port.ChatBackend
}

// NewExtractor creates an Extractor over the given ordered backends.
func NewExtractor(backends []port.ChatBackend) *Extractor {
	return &Extractor{backends: backends}
}

// ExtractResume produces a validated StructuredResume from raw text.
func (e *Extractor) ExtractResume(ctx context.Context, rawText string) (schema.StructuredResume, *Meta, error) {
	var resume schema.StructuredResume
	meta, err := e.extract(ctx, rawText, domain.TargetResume, schema.ResumeSchemaJSON, func(data json.RawMessage) error {
		r, derr := schema.DecodeResume(data)
		if derr != nil {
			return derr
		}
		resume = r
		return nil
	})
	if err != nil {
		return schema.StructuredResume{}, meta, err
	}
	return resume, meta, nil
}

// ExtractJob produces a validated StructuredJobDescription from raw text.
func (e *Extractor) ExtractJob(ctx context.Context, rawText string) (schema.StructuredJobDescription, *Meta, error) {
	var job schema.StructuredJobDescription
	meta, err := e.extract(ctx, rawText, domain.TargetJobDescription, schema.JobSchemaJSON, func(data json.RawMessage) error {
		j, derr := schema.DecodeJob(data)
		if derr != nil {
			return derr
		}
		job = j
		return nil
	})
	if err != nil {
		return schema.StructuredJobDescription{}, meta, err
	}
	return job, meta, nil
}

// extract runs the cascade. decode must validate the raw JSON object and
// capture the resulting record; a non-nil return is treated as a validation
// failure eligible for one correction attempt on the same backend.
func (e *Extractor) extract(
	ctx context.Context,
	rawText string,
	target domain.ExtractionTarget,
	schemaJSON string,
	decode func(json.RawMessage) error,
) (*Meta, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrEmptyInput
	}
	if len(rawText) > maxInputChars {
		// The budget is characters, not bytes; never split a rune.
		if runes := []rune(rawText); len(runes) > maxInputChars {
			rawText = string(runes[:maxInputChars])
		}
	}

	sysPrompt := systemPrompt(schemaJSON, target)
	retryPrompt := jsonRetryPrompt(schemaJSON, target)

	var failures []Failure

	for _, backend := range e.backends {
		meta := &Meta{Target: target, ModelUsed: backend.Name()}
		log.Printf("extract.Extractor: model_attempt model=%s target=%s", backend.Name(), target)

		resp, err := e.call(ctx, backend, meta, sysPrompt, rawText)
		if err != nil {
			log.Printf("extract.Extractor: model_failure model=%s target=%s stage=%s detail=%v", backend.Name(), target, StageHTTP, err)
			failures = append(failures, Failure{Backend: backend.Name(), Stage: StageHTTP, Message: err.Error()})
			continue
		}

		parsed, perr := parseJSONObject(resp.Content)
		if perr != nil {
			log.Printf("extract.Extractor: model_failure model=%s target=%s stage=%s detail=%v", backend.Name(), target, StageJSONParse, perr)
			failures = append(failures, Failure{Backend: backend.Name(), Stage: StageJSONParse, Message: perr.Error()})

			retryResp, rerr := e.call(ctx, backend, meta, retryPrompt, rawText)
			if rerr == nil {
				parsed, perr = parseJSONObject(retryResp.Content)
			} else {
				perr = rerr
			}
			if perr != nil {
				log.Printf("extract.Extractor: model_failure model=%s target=%s stage=%s detail=%v", backend.Name(), target, StageJSONParseRetry, perr)
				failures = append(failures, Failure{Backend: backend.Name(), Stage: StageJSONParseRetry, Message: perr.Error()})
				continue
			}
			meta.Stages = append(meta.Stages, StageJSONParseRetry)
		} else {
			meta.Stages = append(meta.Stages, StageJSONParse)
		}

		if derr := decode(parsed); derr != nil {
			log.Printf("extract.Extractor: model_failure model=%s target=%s stage=%s detail=%v", backend.Name(), target, StageValidation, derr)
			failures = append(failures, Failure{Backend: backend.Name(), Stage: StageValidation, Message: derr.Error()})

			fixPrompt := correctionPrompt(schemaJSON, target, derr.Error())
			fixResp, ferr := e.call(ctx, backend, meta, fixPrompt, rawText)
			var fixErr error
			if ferr != nil {
				fixErr = ferr
			} else {
				fixedObj, fperr := parseJSONObject(fixResp.Content)
				if fperr != nil {
					fixErr = fperr
				} else {
					fixErr = decode(fixedObj)
				}
			}
			if fixErr != nil {
				log.Printf("extract.Extractor: model_failure model=%s target=%s stage=%s detail=%v", backend.Name(), target, StageValidationRetry, fixErr)
				failures = append(failures, Failure{Backend: backend.Name(), Stage: StageValidationRetry, Message: fixErr.Error()})
				continue
			}
			meta.Stages = append(meta.Stages, StageValidationRetry)
		}

		meta.Validated = true
		log.Printf("extract.Extractor: model_success model=%s target=%s attempts=%d latency_ms=%d",
			backend.Name(), target, meta.Attempts, meta.totalLatencyMS())
		return meta, nil
	}

	return nil, newCascadeError(failures)
}

// call issues one request and records attempt/latency on success. Transport
// failures do not count as attempts against the backend.
func (e *Extractor) call(ctx context.Context, backend port.ChatBackend, meta *Meta, system, user string) (*port.ChatResponse, error) {
	resp, err := backend.Complete(ctx, port.ChatRequest{
		Messages: []port.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		JSONObject: true,
	})
	if err != nil {
		return nil, err
	}
	meta.Attempts++
	meta.LatencyMS = append(meta.LatencyMS, resp.LatencyMS)
	return resp, nil
}
