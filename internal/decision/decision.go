// Package decision maps a final score to a hiring outcome using rubric
// thresholds, with a borderline band that pulls near-miss candidates into
// manual review.
package decision

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"

	"nefera/internal/domain"
)

const (
	defaultAutoAdvance  = 80.0
	defaultManualReview = 60.0

	defaultBorderlineBand = 1.0
	maxBorderlineBand     = 10.0

	// confidenceMarginScale maps a score margin of this many points to full
	// base confidence.
	confidenceMarginScale = 10.0
)

// Thresholds are the decision cut lines on the 0-100 score scale.
type Thresholds struct {
	AutoAdvance  float64 `json:"auto_advance" mapstructure:"auto_advance"`
	ManualReview float64 `json:"manual_review" mapstructure:"manual_review"`
}

// Decision is the outcome of applying thresholds to a score.
type Decision struct {
	Outcome    domain.DecisionOutcome `json:"outcome"`
	Reason     string                 `json:"reason"`
	Thresholds Thresholds             `json:"thresholds_used"`
	// Confidence is 0 to 1, higher when the score sits far from the
	// nearest cut line.
	Confidence float64 `json:"confidence_0_to_1"`
}

// ThresholdsFromRubric reads the "thresholds" section of a rubric, applying
// defaults for missing values. Both thresholds must lie in [0, 100] and
// auto_advance must not be below manual_review.
func ThresholdsFromRubric(rubric map[string]interface{}) (Thresholds, error) {
	t := Thresholds{AutoAdvance: defaultAutoAdvance, ManualReview: defaultManualReview}
	if rubric == nil {
		return t, nil
	}
	raw, ok := rubric["thresholds"]
	if !ok {
		return t, nil
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return Thresholds{}, fmt.Errorf("%w: thresholds must be an object", domain.ErrRubricInvalid)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &t,
	})
	if err != nil {
		return Thresholds{}, fmt.Errorf("%w: %v", domain.ErrRubricInvalid, err)
	}
	if err := decoder.Decode(section); err != nil {
		return Thresholds{}, fmt.Errorf("%w: %v", domain.ErrRubricInvalid, err)
	}

	for name, v := range map[string]float64{"auto_advance": t.AutoAdvance, "manual_review": t.ManualReview} {
		if v < 0 || v > 100 || math.IsNaN(v) {
			return Thresholds{}, fmt.Errorf("%w: threshold %s must be in [0, 100]", domain.ErrRubricInvalid, name)
		}
	}
	if t.AutoAdvance < t.ManualReview {
		return Thresholds{}, fmt.Errorf("%w: auto_advance threshold must be >= manual_review threshold", domain.ErrRubricInvalid)
	}
	return t, nil
}

// BorderlineBandFromRubric reads the optional "borderline_band" key inside
// the rubric's thresholds section. Unparseable values fall back to the
// default; out-of-range values clamp to [0, 10].
func BorderlineBandFromRubric(rubric map[string]interface{}) float64 {
	if rubric == nil {
		return defaultBorderlineBand
	}
	section, ok := rubric["thresholds"].(map[string]interface{})
	if !ok {
		return defaultBorderlineBand
	}
	raw, ok := section["borderline_band"]
	if !ok {
		return defaultBorderlineBand
	}

	var parsed float64
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &parsed,
	})
	if err != nil || decoder.Decode(raw) != nil || math.IsNaN(parsed) {
		return defaultBorderlineBand
	}
	if parsed < 0 {
		return 0
	}
	if parsed > maxBorderlineBand {
		return maxBorderlineBand
	}
	return parsed
}

// Decide maps a validated score to an outcome. externalConfidence, when
// non-nil, is blended into the margin-derived base confidence at 40 percent
// weight.
func Decide(score float64, thresholds Thresholds, band float64, externalConfidence *float64) (Decision, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
		return Decision{}, fmt.Errorf("%w: score must be a number in [0, 100], got %v", domain.ErrScoreInvalid, score)
	}

	var outcome domain.DecisionOutcome
	var reason string
	switch {
	case score >= thresholds.AutoAdvance:
		outcome = domain.DecisionAutoAdvance
		if band > 0 && score < thresholds.AutoAdvance+band {
			reason = fmt.Sprintf("Score %.2f is just above the auto-advance threshold (%.2f)", score, thresholds.AutoAdvance)
		} else {
			reason = fmt.Sprintf("Score %.2f clears the auto-advance threshold (%.2f)", score, thresholds.AutoAdvance)
		}
	case score >= thresholds.ManualReview:
		outcome = domain.DecisionManualReview
		if band > 0 && score >= thresholds.AutoAdvance-band {
			reason = fmt.Sprintf("Score %.2f is borderline for auto-advance (%.2f)", score, thresholds.AutoAdvance)
		} else {
			reason = fmt.Sprintf("Score %.2f meets the review threshold (%.2f)", score, thresholds.ManualReview)
		}
	case band > 0 && score >= thresholds.ManualReview-band:
		outcome = domain.DecisionManualReview
		reason = fmt.Sprintf("Score %.2f is within %.2f of the review threshold (%.2f)", score, band, thresholds.ManualReview)
	default:
		outcome = domain.DecisionReject
		if band > 0 {
			reason = fmt.Sprintf("Score %.2f is below the review threshold (%.2f)", score, thresholds.ManualReview)
		} else {
			reason = fmt.Sprintf("Score %.2f < manual_review %.2f", score, thresholds.ManualReview)
		}
	}

	confidence := confidenceFor(score, thresholds, outcome, externalConfidence)
	return Decision{Outcome: outcome, Reason: reason, Thresholds: thresholds, Confidence: confidence}, nil
}

// confidenceFor derives confidence from the score's margin to the nearest
// relevant cut line, optionally blended with an upstream confidence signal.
func confidenceFor(score float64, thresholds Thresholds, outcome domain.DecisionOutcome, external *float64) float64 {
	var margin float64
	switch outcome {
	case domain.DecisionAutoAdvance:
		margin = score - thresholds.AutoAdvance
	case domain.DecisionReject:
		margin = thresholds.ManualReview - score
	default:
		margin = math.Min(score-thresholds.ManualReview, thresholds.AutoAdvance-score)
	}
	if margin < 0 {
		margin = 0
	}

	base := 0.5 + 0.5*clamp01(margin/confidenceMarginScale)
	if external == nil {
		return clamp01(base)
	}
	return clamp01(base*0.6 + clamp01(*external)*0.4)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
