package extract

import (
	"fmt"

	"nefera/internal/domain"
)

// systemPrompt embeds the target schema and the strict extraction rules:
// only facts present in the input, empty list/null for missing fields,
// no commentary.
func systemPrompt(schemaJSON string, target domain.ExtractionTarget) string {
	return fmt.Sprintf(
		"You are a strict information extraction engine for an AI hiring evaluation system.\n"+
			"Extract structured factual data for: %s.\n"+
			"Rules:\n"+
			"- Output MUST be a single JSON object, with no surrounding text.\n"+
			"- Output MUST match the provided JSON Schema exactly.\n"+
			"- Extract ONLY facts present in the input text. Do not infer, guess, or hallucinate.\n"+
			"- If a field is missing, use an empty list [] for list fields, and null for optional fields.\n"+
			"- Use concise normalized strings; do not add commentary.\n"+
			"JSON Schema:\n%s\n",
		target, schemaJSON,
	)
}

// jsonRetryPrompt is the schema-only "JSON-only" repair instruction issued
// after a parse failure.
func jsonRetryPrompt(schemaJSON string, target domain.ExtractionTarget) string {
	return fmt.Sprintf(
		"You are a strict information extraction engine.\n"+
			"Extract structured factual data for: %s.\n"+
			"Rules:\n"+
			"- Output MUST be a single JSON object, with no surrounding text.\n"+
			"- Output MUST be valid JSON.\n"+
			"- Output MUST match the provided JSON Schema exactly.\n"+
			"- Extract ONLY facts present in the input text. Do not infer, guess, or hallucinate.\n"+
			"- If a field is missing, use an empty list [] for list fields, and null for optional fields.\n"+
			"JSON Schema:\n%s\n",
		target, schemaJSON,
	)
}

// correctionPrompt embeds the original schema and the exact validation error
// text, asking for a corrected object.
func correctionPrompt(schemaJSON string, target domain.ExtractionTarget, validationErr string) string {
	return fmt.Sprintf(
		"You are a strict JSON repair and extraction engine.\n"+
			"The previous output for %s did not validate.\n"+
			"Fix the output so it matches the JSON Schema exactly.\n"+
			"Rules:\n"+
			"- Output MUST be a single JSON object, with no surrounding text.\n"+
			"- Output MUST be valid JSON.\n"+
			"- Do not hallucinate. Use only facts present in the input.\n"+
			"- If missing, use [] for list fields and null for optional fields.\n"+
			"Validation error:\n%s\n"+
			"JSON Schema:\n%s\n",
		target, validationErr, schemaJSON,
	)
}

// summarySystemPrompt instructs the backend to produce the single-field
// recommendation object.
func summarySystemPrompt(schemaJSON string) string {
	return fmt.Sprintf(
		"You write concise hiring recommendations.\n"+
			"Return a single JSON object only.\n"+
			"Do not add extra keys.\n"+
			"JSON Schema:\n%s\n",
		schemaJSON,
	)
}
