// Package scoring computes deterministic rubric-weighted fit scores from
// canonical resume and job records.
package scoring

import "strings"

// skillSynonyms maps common spelling variants to one canonical token. Lookup
// happens twice: once on the space-collapsed form and once after spaces are
// removed, so "node js", "node.js" and "nodejs" all land on the same token.
var skillSynonyms = map[string]string{
	"py":       "python",
	"js":       "javascript",
	"ts":       "typescript",
	"node":     "nodejs",
	"node.js":  "nodejs",
	"reactjs":  "react",
	"react.js": "react",
	"next":     "nextjs",
	"next.js":  "nextjs",
	"postgres": "postgresql",
	"postgre":  "postgresql",
	"k8s":      "kubernetes",
	"c++":      "cpp",
	"c#":       "csharp",
	".net":     "dotnet",
	"golang":   "go",
}

// CanonicalSkill folds a skill string to its canonical comparison token.
// Idempotent: canonicalizing an already canonical token returns it unchanged.
func CanonicalSkill(s string) string {
	t := strings.ToLower(strings.Join(strings.Fields(s), " "))
	for _, sep := range []string{"/", "-", "_"} {
		t = strings.ReplaceAll(t, sep, " ")
	}
	t = strings.Join(strings.Fields(t), " ")
	if canon, ok := skillSynonyms[t]; ok {
		t = canon
	}
	t = strings.ReplaceAll(t, " ", "")
	if canon, ok := skillSynonyms[t]; ok {
		t = canon
	}
	return t
}

// skillsMatch reports whether two canonical tokens refer to the same skill.
// Besides exact equality, tokens of length four or more match when either is
// a substring of the other, so "postgresql" covers "postgresqldba".
func skillsMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) >= 4 && len(b) >= 4 {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}
