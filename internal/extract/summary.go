package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"nefera/internal/port"
	"nefera/internal/schema"
)

const maxSummaryItems = 8

// Summary is the candidate-facing narrative produced after scoring. The
// strengths and gaps are computed deterministically; only the
// recommendation sentence comes from a backend, with a deterministic
// fallback when every backend fails.
type Summary struct {
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Recommendation string   `json:"recommendation"`
}

// Summarizer produces a Summary using the same ordered backend list as the
// extraction cascade, under a shorter per-call timeout.
type Summarizer struct {
	backends []port.ChatBackend
	timeout  time.Duration
}

// NewSummarizer creates a Summarizer. timeout bounds each backend call.
func NewSummarizer(backends []port.ChatBackend, timeout time.Duration) *Summarizer {
	return &Summarizer{backends: backends, timeout: timeout}
}

// Summarize never returns an error: if every backend fails, the
// recommendation falls back to a deterministic sentence derived from the
// score band.
func (s *Summarizer) Summarize(
	ctx context.Context,
	resume schema.StructuredResume,
	job schema.StructuredJobDescription,
	totalScore float64,
) Summary {
	strengths, gaps := summarySignals(resume, job)
	fallback := fallbackRecommendation(totalScore)

	payload, err := json.Marshal(map[string]interface{}{
		"total_score_0_to_100":    totalScore,
		"strengths":               strengths,
		"gaps":                    gaps,
		"fallback_recommendation": fallback,
	})
	if err != nil {
		return Summary{Strengths: strengths, Gaps: gaps, Recommendation: fallback}
	}

	sysPrompt := summarySystemPrompt(schema.SummarySchemaJSON)
	for _, backend := range s.backends {
		reco, rerr := s.tryBackend(ctx, backend, sysPrompt, string(payload))
		if rerr != nil {
			log.Printf("extract.Summarizer: backend_failure model=%s detail=%v", backend.Name(), rerr)
			continue
		}
		return Summary{Strengths: strengths, Gaps: gaps, Recommendation: reco}
	}

	log.Printf("extract.Summarizer: all backends failed, using fallback recommendation")
	return Summary{Strengths: strengths, Gaps: gaps, Recommendation: fallback}
}

func (s *Summarizer) tryBackend(ctx context.Context, backend port.ChatBackend, system, user string) (string, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := backend.Complete(callCtx, port.ChatRequest{
		Messages: []port.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		JSONObject: true,
	})
	if err != nil {
		return "", err
	}

	parsed, err := parseJSONObject(resp.Content)
	if err != nil {
		return "", err
	}
	var out struct {
		Recommendation string `json:"recommendation"`
	}
	if err := json.Unmarshal(parsed, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Recommendation) == "" {
		return "", fmt.Errorf("backend returned empty recommendation")
	}
	return strings.TrimSpace(out.Recommendation), nil
}

// summarySignals derives strengths and gaps from the structured records.
// Skill comparison here intentionally uses a plain folded form, not the
// scoring synonym table, so the narrative stays close to the literal text.
func summarySignals(resume schema.StructuredResume, job schema.StructuredJobDescription) (strengths, gaps []string) {
	resumeSkills := make(map[string]bool, len(resume.Skills))
	for _, sk := range resume.Skills {
		resumeSkills[foldSkill(sk)] = true
	}

	var matched, missing []string
	for _, req := range job.RequiredSkills {
		if resumeSkills[foldSkill(req)] {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	if len(matched) > 0 {
		strengths = append(strengths, fmt.Sprintf("Matches required skills: %s", joinTruncated(matched)))
	}
	if job.MinimumYearsExperience > 0 && resume.TotalYearsExperience >= job.MinimumYearsExperience {
		strengths = append(strengths, fmt.Sprintf("Meets experience requirement (%.1f years vs %.1f required)",
			resume.TotalYearsExperience, job.MinimumYearsExperience))
	}
	if job.RequiredEducation != nil && matchesEducation(resume.Education, *job.RequiredEducation) {
		strengths = append(strengths, fmt.Sprintf("Education matches requirement (%s)", *job.RequiredEducation))
	}
	if job.Domain != nil && resume.HasDomain(*job.Domain) {
		strengths = append(strengths, fmt.Sprintf("Relevant domain experience (%s)", *job.Domain))
	}
	if len(resume.Projects) > 0 {
		strengths = append(strengths, "Has concrete project experience")
	}

	if len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf("Missing required skills: %s", joinTruncated(missing)))
	}
	if job.MinimumYearsExperience > 0 && resume.TotalYearsExperience < job.MinimumYearsExperience {
		gaps = append(gaps, fmt.Sprintf("Below experience requirement (%.1f years vs %.1f required)",
			resume.TotalYearsExperience, job.MinimumYearsExperience))
	}
	if job.RequiredEducation != nil && !matchesEducation(resume.Education, *job.RequiredEducation) {
		gaps = append(gaps, fmt.Sprintf("Education requirement not evidenced (%s)", *job.RequiredEducation))
	}
	if job.Domain != nil && !resume.HasDomain(*job.Domain) {
		gaps = append(gaps, fmt.Sprintf("No stated experience in target domain (%s)", *job.Domain))
	}

	if len(strengths) > maxSummaryItems {
		strengths = strengths[:maxSummaryItems]
	}
	if len(gaps) > maxSummaryItems {
		gaps = gaps[:maxSummaryItems]
	}
	return strengths, gaps
}

func fallbackRecommendation(totalScore float64) string {
	switch {
	case totalScore >= 80:
		return "Proceed to interview scheduling."
	case totalScore >= 60:
		return "Route to recruiter review for validation."
	default:
		return "Recommend rejection based on current evidence."
	}
}

func foldSkill(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.Join(strings.Fields(s), " ")), " ", "")
}

func matchesEducation(education []string, required string) bool {
	req := strings.ToLower(required)
	for _, e := range education {
		if strings.Contains(strings.ToLower(e), req) {
			return true
		}
	}
	return false
}

func joinTruncated(items []string) string {
	if len(items) > maxSummaryItems {
		return strings.Join(items[:maxSummaryItems], ", ") + ", ..."
	}
	return strings.Join(items, ", ")
}
