// Package schema defines the canonical structured records produced by
// extraction and consumed read-only by the scoring, decision, and
// orchestration layers.
package schema

// StructuredResume is the validated, normalized resume record. Values are
// immutable once constructed; derived copies are produced via With* helpers.
type StructuredResume struct {
	FullName             string   `json:"full_name" validate:"required"`
	Skills               []string `json:"skills"`
	TotalYearsExperience float64  `json:"total_years_experience" validate:"gte=0"`
	Companies            []string `json:"companies"`
	Education            []string `json:"education"`
	Projects             []string `json:"projects"`
	Domains              []string `json:"domains"`
}

// StructuredJobDescription is the validated, normalized job record.
type StructuredJobDescription struct {
	RequiredSkills        []string `json:"required_skills" validate:"min=1"`
	PreferredSkills       []string `json:"preferred_skills"`
	MinimumYearsExperience float64 `json:"minimum_years_experience" validate:"gte=0"`
	RequiredEducation     *string  `json:"required_education"`
	Domain                *string  `json:"domain"`
}

// WithDomainAppended returns a copy of the resume with one more domain tag.
// The receiver is not modified.
func (r StructuredResume) WithDomainAppended(domain string) StructuredResume {
	out := r
	out.Domains = append(append([]string(nil), r.Domains...), domain)
	return out
}

// WithDomain returns a copy of the job with the domain replaced.
// The receiver is not modified.
func (j StructuredJobDescription) WithDomain(domain string) StructuredJobDescription {
	out := j
	d := domain
	out.Domain = &d
	return out
}

// HasDomain reports whether the resume already carries the given domain tag,
// compared case-insensitively.
func (r StructuredResume) HasDomain(domain string) bool {
	key := foldToken(domain)
	for _, d := range r.Domains {
		if foldToken(d) == key {
			return true
		}
	}
	return false
}
