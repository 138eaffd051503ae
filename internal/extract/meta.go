package extract

import "nefera/internal/domain"

// Meta is the per-extraction diagnostic record. It is carried for logging
// and response diagnostics only, never persisted as authoritative data.
type Meta struct {
	Target    domain.ExtractionTarget `json:"target"`
	ModelUsed string                  `json:"model_used"`
	Attempts  int                     `json:"attempts"`
	LatencyMS []int64                 `json:"latency_ms"`
	Stages    []string                `json:"stages"`
	Validated bool                    `json:"validated"`
	Error     string                  `json:"error,omitempty"`
}

func (m *Meta) totalLatencyMS() int64 {
	var total int64
	for _, l := range m.LatencyMS {
		total += l
	}
	return total
}
