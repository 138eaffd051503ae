package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"nefera/internal/domain"
	"nefera/internal/schema"
)

// Dimension names used in rubric weights and breakdowns.
const (
	DimRequiredSkills = "required_skills"
	DimExperience     = "experience"
	DimDomainMatch    = "domain_match"
	DimProjects       = "projects"
	DimEducation      = "education"
)

var dimensionOrder = []string{DimRequiredSkills, DimExperience, DimDomainMatch, DimProjects, DimEducation}

// rubricWeights is the decoded shape of the rubric's weights section.
// Weights may arrive as numbers or numeric strings; missing dimensions
// default to zero weight.
type rubricWeights struct {
	RequiredSkills float64 `mapstructure:"required_skills"`
	Experience     float64 `mapstructure:"experience"`
	DomainMatch    float64 `mapstructure:"domain_match"`
	Projects       float64 `mapstructure:"projects"`
	Education      float64 `mapstructure:"education"`
}

// Dimension is one scored axis of the breakdown.
type Dimension struct {
	Score        float64 `json:"score_0_to_1"`
	Weight       float64 `json:"weight_0_to_1"`
	Contribution float64 `json:"contribution_0_to_100"`
}

// Coverage reports how the candidate's skills cover the job's required set.
type Coverage struct {
	Matched         int      `json:"matched"`
	Total           int      `json:"total"`
	Ratio           float64  `json:"ratio_0_to_1"`
	MatchedRequired []string `json:"matched_required"`
	MissingRequired []string `json:"missing_required"`
}

// Boosts records post-scoring adjustment points and the signals behind them.
// Zero when no adjustment applied.
type Boosts struct {
	Points  float64  `json:"points"`
	Signals []string `json:"signals"`
}

// Breakdown is the full per-dimension explanation of a score.
type Breakdown struct {
	Dimensions             map[string]Dimension `json:"dimensions"`
	Weights                map[string]float64   `json:"weights"`
	RequiredSkillsCoverage Coverage             `json:"required_skills_coverage"`
	TotalScore             float64              `json:"total_score_0_to_100"`
	Boosts                 *Boosts              `json:"boosts,omitempty"`
}

// Result is an immutable scoring outcome. Adjustment stages build new
// Results rather than mutating one in place.
type Result struct {
	TotalScore float64
	Breakdown  Breakdown
}

// Score computes the rubric-weighted fit score for a resume against a job.
// Identical inputs always yield an identical Result.
func Score(resume schema.StructuredResume, job schema.StructuredJobDescription, rubric map[string]interface{}) (*Result, error) {
	if rubric == nil {
		return nil, domain.ErrMissingRubric
	}

	weights, err := decodeWeights(rubric)
	if err != nil {
		return nil, err
	}

	coverage := requiredSkillsCoverage(resume, job)

	scores := map[string]float64{
		DimRequiredSkills: coverage.Ratio,
		DimExperience:     experienceScore(resume.TotalYearsExperience, job.MinimumYearsExperience),
		DimDomainMatch:    domainScore(resume, job),
		DimProjects:       projectsScore(resume),
		DimEducation:      educationScore(resume, job),
	}

	dimensions := make(map[string]Dimension, len(dimensionOrder))
	total := 0.0
	for _, dim := range dimensionOrder {
		contribution := round2(weights[dim] * scores[dim] * 100)
		dimensions[dim] = Dimension{
			Score:        scores[dim],
			Weight:       weights[dim],
			Contribution: contribution,
		}
		total += weights[dim] * scores[dim]
	}
	totalScore := round2(clamp(total*100, 0, 100))

	return &Result{
		TotalScore: totalScore,
		Breakdown: Breakdown{
			Dimensions:             dimensions,
			Weights:                weights,
			RequiredSkillsCoverage: coverage,
			TotalScore:             totalScore,
		},
	}, nil
}

// decodeWeights reads the rubric's "weights" section (or the rubric root when
// no such section exists), rejects negative or unparseable values, and
// normalizes the result to sum to 1.0.
func decodeWeights(rubric map[string]interface{}) (map[string]float64, error) {
	source := rubric
	if raw, ok := rubric["weights"]; ok {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: weights must be an object", domain.ErrRubricInvalid)
		}
		source = m
	}

	var decoded rubricWeights
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRubricInvalid, err)
	}
	if err := decoder.Decode(source); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRubricInvalid, err)
	}

	weights := map[string]float64{
		DimRequiredSkills: decoded.RequiredSkills,
		DimExperience:     decoded.Experience,
		DimDomainMatch:    decoded.DomainMatch,
		DimProjects:       decoded.Projects,
		DimEducation:      decoded.Education,
	}
	sum := 0.0
	for dim, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight for %s must be a non-negative number", domain.ErrRubricInvalid, dim)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: weights must sum to a positive number", domain.ErrRubricInvalid)
	}
	for dim := range weights {
		weights[dim] = weights[dim] / sum
	}
	return weights, nil
}

func requiredSkillsCoverage(resume schema.StructuredResume, job schema.StructuredJobDescription) Coverage {
	resumeCanon := make([]string, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		resumeCanon = append(resumeCanon, CanonicalSkill(s))
	}

	var matched, missing []string
	for _, req := range job.RequiredSkills {
		reqCanon := CanonicalSkill(req)
		found := false
		for _, have := range resumeCanon {
			if skillsMatch(reqCanon, have) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	total := len(job.RequiredSkills)
	ratio := 1.0
	if total > 0 {
		ratio = float64(len(matched)) / float64(total)
	}
	return Coverage{
		Matched:         len(matched),
		Total:           total,
		Ratio:           ratio,
		MatchedRequired: matched,
		MissingRequired: missing,
	}
}

func experienceScore(years, minYears float64) float64 {
	if minYears <= 0 {
		return 1.0
	}
	if years >= minYears {
		return 1.0
	}
	if years <= 0 {
		return 0.0
	}
	return clamp(years/minYears, 0, 1)
}

func domainScore(resume schema.StructuredResume, job schema.StructuredJobDescription) float64 {
	if job.Domain == nil {
		return 1.0
	}
	if resume.HasDomain(*job.Domain) {
		return 1.0
	}
	return 0.0
}

func projectsScore(resume schema.StructuredResume) float64 {
	if len(resume.Projects) > 0 {
		return 1.0
	}
	return 0.0
}

func educationScore(resume schema.StructuredResume, job schema.StructuredJobDescription) float64 {
	if job.RequiredEducation == nil {
		return 1.0
	}
	required := strings.ToLower(*job.RequiredEducation)
	for _, e := range resume.Education {
		if strings.Contains(strings.ToLower(e), required) {
			return 1.0
		}
	}
	return 0.0
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
