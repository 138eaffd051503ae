package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSkill(t *testing.T) {
	cases := map[string]string{
		"Node.js":     "nodejs",
		"node js":     "nodejs",
		"NODEJS":      "nodejs",
		"React.JS":    "react",
		"Next.js":     "nextjs",
		"Postgres":    "postgresql",
		"PostgreSQL":  "postgresql",
		"k8s":         "kubernetes",
		"GoLang":      "go",
		"C++":         "cpp",
		"  Python  ":  "python",
		"py":          "python",
		"Type Script": "typescript",
	}
	for input, want := range cases {
		assert.Equal(t, want, CanonicalSkill(input), "input %q", input)
	}
}

func TestCanonicalSkill_Idempotent(t *testing.T) {
	for _, s := range []string{"Node.js", "postgres", "Machine Learning", "k8s", "AWS"} {
		once := CanonicalSkill(s)
		assert.Equal(t, once, CanonicalSkill(once))
	}
}

func TestSkillsMatch(t *testing.T) {
	assert.True(t, skillsMatch("go", "go"))
	assert.False(t, skillsMatch("go", "golangci"))
	assert.True(t, skillsMatch("postgresql", "postgresqldba"))
	assert.True(t, skillsMatch("reactnative", "react"))
	assert.True(t, skillsMatch("java", "javascript"))
	assert.False(t, skillsMatch("go", "gos"))
}
