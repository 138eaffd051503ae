package schema

import (
	"fmt"
	"strings"
)

// NormalizeToken trims and collapses internal whitespace.
func NormalizeToken(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func foldToken(value string) string {
	return strings.ToLower(NormalizeToken(value))
}

// normalizeList trims and collapses each entry, rejects empty items, and
// drops case-insensitive duplicates while preserving first-seen order.
func normalizeList(values []string, fieldName string) ([]string, error) {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))

	for _, raw := range values {
		token := NormalizeToken(raw)
		if token == "" {
			return nil, fmt.Errorf("%s must not contain empty items", fieldName)
		}
		key := strings.ToLower(token)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, token)
	}
	return out, nil
}

// Normalized returns a canonical copy of the resume with every string-list
// field whitespace-collapsed, trimmed, and deduplicated. Field rules are
// enforced afterwards.
func (r StructuredResume) Normalized() (StructuredResume, error) {
	out := r
	out.FullName = NormalizeToken(r.FullName)
	if out.FullName == "" {
		return StructuredResume{}, fmt.Errorf("full_name must be a non-empty string")
	}
	if r.TotalYearsExperience < 0 {
		return StructuredResume{}, fmt.Errorf("total_years_experience must be >= 0")
	}

	var err error
	if out.Skills, err = normalizeList(r.Skills, "skills"); err != nil {
		return StructuredResume{}, err
	}
	if out.Companies, err = normalizeList(r.Companies, "companies"); err != nil {
		return StructuredResume{}, err
	}
	if out.Education, err = normalizeList(r.Education, "education"); err != nil {
		return StructuredResume{}, err
	}
	if out.Projects, err = normalizeList(r.Projects, "projects"); err != nil {
		return StructuredResume{}, err
	}
	if out.Domains, err = normalizeList(r.Domains, "domains"); err != nil {
		return StructuredResume{}, err
	}

	if err := validate.Struct(out); err != nil {
		return StructuredResume{}, fmt.Errorf("resume validation: %w", err)
	}
	return out, nil
}

// Normalized returns a canonical copy of the job description.
func (j StructuredJobDescription) Normalized() (StructuredJobDescription, error) {
	out := j
	if j.MinimumYearsExperience < 0 {
		return StructuredJobDescription{}, fmt.Errorf("minimum_years_experience must be >= 0")
	}

	var err error
	if out.RequiredSkills, err = normalizeList(j.RequiredSkills, "required_skills"); err != nil {
		return StructuredJobDescription{}, err
	}
	if len(out.RequiredSkills) == 0 {
		return StructuredJobDescription{}, fmt.Errorf("required_skills must contain at least one item")
	}
	if out.PreferredSkills, err = normalizeList(j.PreferredSkills, "preferred_skills"); err != nil {
		return StructuredJobDescription{}, err
	}

	if out.RequiredEducation, err = normalizeOptional(j.RequiredEducation, "required_education"); err != nil {
		return StructuredJobDescription{}, err
	}
	if out.Domain, err = normalizeOptional(j.Domain, "domain"); err != nil {
		return StructuredJobDescription{}, err
	}

	if err := validate.Struct(out); err != nil {
		return StructuredJobDescription{}, fmt.Errorf("job validation: %w", err)
	}
	return out, nil
}

func normalizeOptional(value *string, fieldName string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	token := NormalizeToken(*value)
	if token == "" {
		return nil, fmt.Errorf("%s must be null or a non-empty string", fieldName)
	}
	return &token, nil
}
