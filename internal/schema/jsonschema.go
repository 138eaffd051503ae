package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

var validate = validator.New()

// ResumeSchemaJSON is the JSON Schema for StructuredResume. It is embedded in
// extraction prompts verbatim and used to validate parsed backend output.
const ResumeSchemaJSON = `{
  "title": "StructuredResume",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "full_name": {"type": "string", "minLength": 1, "description": "Candidate full name. Non-empty canonical string."},
    "skills": {"type": "array", "items": {"type": "string"}, "description": "Normalized skill tokens. No empty items."},
    "total_years_experience": {"type": "number", "minimum": 0, "description": "Total professional experience in years."},
    "companies": {"type": "array", "items": {"type": "string"}, "description": "Employer/company names."},
    "education": {"type": "array", "items": {"type": "string"}, "description": "Education entries."},
    "projects": {"type": "array", "items": {"type": "string"}, "description": "Project titles/identifiers."},
    "domains": {"type": "array", "items": {"type": "string"}, "description": "Domain tags."}
  },
  "required": ["full_name", "skills", "total_years_experience", "companies", "education", "projects", "domains"]
}`

// JobSchemaJSON is the JSON Schema for StructuredJobDescription.
const JobSchemaJSON = `{
  "title": "StructuredJobDescription",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "required_skills": {"type": "array", "items": {"type": "string"}, "minItems": 1, "description": "Required skill tokens. At least one item."},
    "preferred_skills": {"type": "array", "items": {"type": "string"}, "description": "Preferred skill tokens. May be empty."},
    "minimum_years_experience": {"type": "number", "minimum": 0, "description": "Minimum years of experience required."},
    "required_education": {"type": ["string", "null"], "description": "Required education credential, or null."},
    "domain": {"type": ["string", "null"], "description": "Primary role domain tag, or null."}
  },
  "required": ["required_skills", "preferred_skills", "minimum_years_experience", "required_education", "domain"]
}`

// SummarySchemaJSON is the minimal schema for the narrative recommendation.
const SummarySchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {"recommendation": {"type": "string"}},
  "required": ["recommendation"]
}`

var (
	resumeSchema = gojsonschema.NewStringLoader(ResumeSchemaJSON)
	jobSchema    = gojsonschema.NewStringLoader(JobSchemaJSON)
)

// DecodeResume validates raw JSON against the resume schema, unmarshals it,
// and returns the normalized canonical record.
func DecodeResume(data []byte) (StructuredResume, error) {
	if err := validateAgainst(resumeSchema, data); err != nil {
		return StructuredResume{}, err
	}
	var r StructuredResume
	if err := json.Unmarshal(data, &r); err != nil {
		return StructuredResume{}, fmt.Errorf("decoding resume: %w", err)
	}
	return r.Normalized()
}

// DecodeJob validates raw JSON against the job schema, unmarshals it, and
// returns the normalized canonical record.
func DecodeJob(data []byte) (StructuredJobDescription, error) {
	if err := validateAgainst(jobSchema, data); err != nil {
		return StructuredJobDescription{}, err
	}
	var j StructuredJobDescription
	if err := json.Unmarshal(data, &j); err != nil {
		return StructuredJobDescription{}, fmt.Errorf("decoding job description: %w", err)
	}
	return j.Normalized()
}

func validateAgainst(schemaLoader gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("schema validation: %s", strings.Join(msgs, "; "))
}
