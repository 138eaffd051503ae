// Package evaluation runs the scoring, adjustment, summary, decision, and
// action-dispatch stages over canonical records produced by extraction.
package evaluation

import (
	"context"
	"log"
	"math"
	"strings"

	"nefera/internal/decision"
	"nefera/internal/domain"
	"nefera/internal/extract"
	"nefera/internal/port"
	"nefera/internal/schema"
	"nefera/internal/scoring"
)

const (
	extractionQualityNominal     = 1.0
	extractionQualityOneFallback = 0.7
	extractionQualityTwoFallback = 0.4

	maxBoostPoints = 2.0
)

var seniorityTerms = []string{"senior", "principal", "staff", "lead", "architect", "manager", "head of"}

var leadershipTerms = []string{"led", "managed", "mentored", "ownership", "owned", "stakeholder", "roadmap", "strategy"}

// Input carries everything one evaluation run needs. Raw texts are optional:
// when either is empty the boost stage is skipped entirely.
type Input struct {
	Resume             schema.StructuredResume
	Job                schema.StructuredJobDescription
	Rubric             map[string]interface{}
	ResumeRawText      string
	JobRawText         string
	ResumeFromFallback bool
	JobFromFallback    bool
}

// Outcome is the complete result of one evaluation run.
type Outcome struct {
	TotalScore         float64                `json:"total_score"`
	Breakdown          scoring.Breakdown      `json:"score_breakdown"`
	ConfidenceScore    float64                `json:"confidence_score"`
	Summary            *extract.Summary       `json:"summary,omitempty"`
	Decision           domain.DecisionOutcome `json:"decision"`
	DecisionReason     string                 `json:"decision_reason"`
	ThresholdsUsed     decision.Thresholds    `json:"thresholds_used"`
	DecisionConfidence float64                `json:"decision_confidence_0_to_1"`
	ActionTriggered    bool                   `json:"action_triggered"`
	ActionType         *domain.ActionType     `json:"action_type,omitempty"`
}

// Orchestrator wires the pipeline stages together. The summarizer is
// optional; a nil summarizer skips the summary stage.
type Orchestrator struct {
	summarizer *extract.Summarizer
	notifier   port.Notifier
}

func NewOrchestrator(summarizer *extract.Summarizer, notifier port.Notifier) *Orchestrator {
	return &Orchestrator{summarizer: summarizer, notifier: notifier}
}

// Run executes score, boost, confidence, summary, decide, and dispatch in
// order. The summary stage is best effort and never fails the run; every
// other stage error aborts it.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Outcome, error) {
	if in.Rubric == nil {
		return nil, domain.ErrMissingRubric
	}

	base, err := scoring.Score(in.Resume, in.Job, in.Rubric)
	if err != nil {
		return nil, err
	}

	adjusted := applyBoosts(base, in.ResumeRawText, in.JobRawText)
	confidence := confidenceScore(adjusted.Breakdown.RequiredSkillsCoverage.Ratio, in.ResumeFromFallback, in.JobFromFallback)

	var summary *extract.Summary
	if o.summarizer != nil {
		s := o.summarizer.Summarize(ctx, in.Resume, in.Job, adjusted.TotalScore)
		summary = &s
	}

	thresholds, err := decision.ThresholdsFromRubric(in.Rubric)
	if err != nil {
		return nil, err
	}
	band := decision.BorderlineBandFromRubric(in.Rubric)

	dec, err := decision.Decide(adjusted.TotalScore, thresholds, band, &confidence)
	if err != nil {
		return nil, err
	}

	actionType, triggered := o.dispatch(ctx, dec.Outcome, in.Resume.FullName)

	return &Outcome{
		TotalScore:         adjusted.TotalScore,
		Breakdown:          adjusted.Breakdown,
		ConfidenceScore:    confidence,
		Summary:            summary,
		Decision:           dec.Outcome,
		DecisionReason:     dec.Reason,
		ThresholdsUsed:     dec.Thresholds,
		DecisionConfidence: dec.Confidence,
		ActionTriggered:    triggered,
		ActionType:         actionType,
	}, nil
}

// dispatch maps an outcome to its notification and sends it. Send failures
// are logged, not fatal: the decision already stands at this point.
func (o *Orchestrator) dispatch(ctx context.Context, outcome domain.DecisionOutcome, candidateName string) (*domain.ActionType, bool) {
	var action domain.ActionType
	var send func(context.Context, string) error

	switch outcome {
	case domain.DecisionAutoAdvance:
		action = domain.ActionInterviewInvitation
		send = o.notifier.SendInterviewInvitation
	case domain.DecisionReject:
		action = domain.ActionRejectionNotice
		send = o.notifier.SendRejectionNotice
	default:
		return nil, false
	}

	if err := send(ctx, candidateName); err != nil {
		log.Printf("evaluation.Orchestrator.dispatch: action=%s failed: %v", action, err)
		return &action, false
	}
	log.Printf("evaluation.Orchestrator.dispatch: action=%s dispatched", action)
	return &action, true
}

// applyBoosts adds up to two points for seniority and leadership signals
// found in the raw texts. It returns a new Result; the base result is left
// untouched. When either raw text is missing the base result passes through
// unchanged.
func applyBoosts(base *scoring.Result, resumeRaw, jobRaw string) *scoring.Result {
	if strings.TrimSpace(resumeRaw) == "" || strings.TrimSpace(jobRaw) == "" {
		return base
	}

	resumeText := strings.ToLower(resumeRaw)
	jobText := strings.ToLower(jobRaw)

	points := 0.0
	var signals []string
	if containsAnyTerm(resumeText, seniorityTerms) {
		points += 1.0
		signals = append(signals, "resume_mentions_seniority")
	}
	if containsAnyTerm(jobText, seniorityTerms) && containsAnyTerm(resumeText, leadershipTerms) {
		points += 1.0
		signals = append(signals, "leadership_evidence_for_senior_role")
	}
	if points > maxBoostPoints {
		points = maxBoostPoints
	}
	if points == 0 {
		return base
	}

	total := round2(clamp(base.TotalScore+points, 0, 100))
	breakdown := base.Breakdown
	breakdown.Boosts = &scoring.Boosts{Points: points, Signals: signals}
	breakdown.TotalScore = total
	return &scoring.Result{TotalScore: total, Breakdown: breakdown}
}

// confidenceScore blends required-skill coverage with extraction quality.
// Quality degrades when one or both records came from the heuristic
// fallback instead of a validated backend extraction.
func confidenceScore(skillRatio float64, resumeFallback, jobFallback bool) float64 {
	quality := extractionQualityNominal
	switch {
	case resumeFallback && jobFallback:
		quality = extractionQualityTwoFallback
	case resumeFallback || jobFallback:
		quality = extractionQualityOneFallback
	}
	return clamp01(skillRatio*0.6 + quality*0.4)
}

func containsAnyTerm(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
