package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nefera/internal/domain"
	"nefera/internal/schema"
)

// Deterministic rule-based extraction, used by the caller only after the
// whole backend cascade has failed.

var yearsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\+?\s+years`)

// knownSkills is the fixed vocabulary scanned by the fallback extractor.
// Display labels preserve conventional casing; matching is case-insensitive
// with a few multi-spelling aliases handled explicitly.
var knownSkills = []struct {
	token   string
	display string
	aliases []string
}{
	{token: "python", display: "Python"},
	{token: "java", display: "Java"},
	{token: "javascript", display: "Javascript"},
	{token: "typescript", display: "Typescript"},
	{token: "react", display: "React"},
	{token: "nextjs", display: "Next.js", aliases: []string{"next.js", "nextjs"}},
	{token: "nodejs", display: "Node.js", aliases: []string{"node.js", "nodejs"}},
	{token: "fastapi", display: "Fastapi"},
	{token: "django", display: "Django"},
	{token: "flask", display: "Flask"},
	{token: "sql", display: "SQL"},
	{token: "postgresql", display: "PostgreSQL", aliases: []string{"postgres", "postgresql"}},
	{token: "mysql", display: "Mysql"},
	{token: "mongodb", display: "Mongodb"},
	{token: "redis", display: "Redis"},
	{token: "aws", display: "AWS", aliases: []string{"aws", "amazon web services"}},
	{token: "azure", display: "Azure"},
	{token: "gcp", display: "GCP", aliases: []string{"gcp", "google cloud"}},
	{token: "docker", display: "Docker"},
	{token: "kubernetes", display: "Kubernetes"},
	{token: "git", display: "Git"},
	{token: "linux", display: "Linux"},
}

// domainBuckets drive keyword-vote domain inference.
var domainBuckets = map[string][]string{
	"fintech":    {"fintech", "payment", "payments", "bank", "banking", "credit", "lending", "wallet", "kyc", "aml"},
	"healthcare": {"healthcare", "hospital", "clinical", "patient", "hipaa", "ehr", "emr"},
	"ecommerce":  {"ecommerce", "e-commerce", "shop", "checkout", "cart", "order", "retail", "marketplace", "shopify"},
	"saas":       {"saas", "b2b", "subscription", "multi-tenant", "tenant", "crm", "erp"},
	"data":       {"data", "analytics", "etl", "warehouse", "bigquery", "snowflake", "databricks", "pipeline"},
	"ml_ai":      {"machine learning", "ml", "llm", "nlp", "computer vision", "rag", "prompt"},
}

// InferDomain picks the keyword bucket with the most hits in the text, or ""
// when nothing matches. Used both by the fallback extractor and for
// post-extraction domain enrichment.
func InferDomain(text string) string {
	t := strings.ToLower(text)
	best := ""
	bestScore := 0
	// Iterate a fixed order so ties resolve deterministically.
	for _, name := range []string{"fintech", "healthcare", "ecommerce", "saas", "data", "ml_ai"} {
		score := 0
		for _, kw := range domainBuckets[name] {
			if strings.Contains(t, kw) {
				score++
			}
		}
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

// scanSkills returns display labels for every vocabulary skill present in
// the text, deduplicated case-insensitively in scan order.
func scanSkills(text string) []string {
	t := strings.ToLower(text)
	var out []string
	seen := make(map[string]bool)
	for _, s := range knownSkills {
		matched := false
		if len(s.aliases) > 0 {
			for _, alias := range s.aliases {
				if strings.Contains(t, alias) {
					matched = true
					break
				}
			}
		} else {
			matched = strings.Contains(t, s.token)
		}
		if !matched {
			continue
		}
		key := strings.ToLower(s.display)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s.display)
	}
	return out
}

// HeuristicResume builds a resume record from raw text alone. It always
// succeeds: the name defaults to a placeholder and years to zero.
func HeuristicResume(text string) (schema.StructuredResume, error) {
	name := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) >= 2 && len(line) <= 80 && containsLetter(line) && !strings.Contains(line, "@") {
			name = line
		}
		break
	}
	if name == "" {
		name = "Candidate"
	}

	years := maxYearsMatch(text)
	if years > 50 {
		years = 50
	}

	var education []string
	t := strings.ToLower(text)
	if containsAny(t, "bachelor", "b.tech", "btech", "b.sc") {
		education = append(education, "Bachelor")
	}
	if containsAny(t, "master", "m.tech", "mtech", "m.sc") {
		education = append(education, "Master")
	}
	if containsAny(t, "phd", "doctorate") {
		education = append(education, "PhD")
	}

	var domains []string
	if d := InferDomain(text); d != "" {
		domains = []string{d}
	}

	resume := schema.StructuredResume{
		FullName:             name,
		Skills:               scanSkills(text),
		TotalYearsExperience: years,
		Companies:            []string{},
		Education:            education,
		Projects:             []string{},
		Domains:              domains,
	}
	return resume.Normalized()
}

// HeuristicJob builds a job record from raw text alone. It fails with
// domain.ErrFallbackExhausted when no required skill can be inferred.
func HeuristicJob(text string) (schema.StructuredJobDescription, error) {
	skills := scanSkills(text)
	if len(skills) == 0 {
		return schema.StructuredJobDescription{}, fmt.Errorf("%w: unable to infer required_skills from job description text", domain.ErrFallbackExhausted)
	}

	minYears := 0.0
	for _, m := range yearsRe.FindAllStringSubmatchIndex(text, -1) {
		start := m[0] - 40
		if start < 0 {
			start = 0
		}
		end := m[1] + 40
		if end > len(text) {
			end = len(text)
		}
		window := strings.ToLower(text[start:end])
		if !strings.Contains(window, "experience") && !strings.Contains(window, "years") {
			continue
		}
		if v, err := strconv.ParseFloat(text[m[2]:m[3]], 64); err == nil && v > minYears {
			minYears = v
		}
	}
	if minYears > 40 {
		minYears = 40
	}

	var requiredEducation *string
	t := strings.ToLower(text)
	if containsAny(t, "bachelor", "b.tech", "btech") {
		ed := "Bachelor"
		requiredEducation = &ed
	}
	if containsAny(t, "master", "m.tech", "mtech") {
		ed := "Master"
		requiredEducation = &ed
	}

	var jobDomain *string
	if d := InferDomain(text); d != "" {
		jobDomain = &d
	}

	job := schema.StructuredJobDescription{
		RequiredSkills:         skills,
		PreferredSkills:        []string{},
		MinimumYearsExperience: minYears,
		RequiredEducation:      requiredEducation,
		Domain:                 jobDomain,
	}
	return job.Normalized()
}

func maxYearsMatch(text string) float64 {
	years := 0.0
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > years {
			years = v
		}
	}
	return years
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
