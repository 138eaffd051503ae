package extract_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nefera/internal/domain"
	"nefera/internal/extract"
	"nefera/internal/port"
	"nefera/mocks"
)

const validResumeJSON = `{
	"full_name": "Ada Lovelace",
	"skills": ["Go", "PostgreSQL"],
	"total_years_experience": 7,
	"companies": ["Initech"],
	"education": ["Master of Science"],
	"projects": ["Billing platform"],
	"domains": ["fintech"]
}`

const validJobJSON = `{
	"required_skills": ["Go", "PostgreSQL"],
	"preferred_skills": [],
	"minimum_years_experience": 5,
	"required_education": null,
	"domain": "fintech"
}`

func newBackend(name string) *mocks.MockChatBackend {
	b := new(mocks.MockChatBackend)
	b.On("Name").Return(name)
	return b
}

func TestExtractResume_FirstBackendSucceeds(t *testing.T) {
	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: validResumeJSON, LatencyMS: 42}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	resume, meta, err := e.ExtractResume(context.Background(), "Ada Lovelace\nGo, PostgreSQL")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.FullName)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, resume.Skills)
	assert.Equal(t, "m1", meta.ModelUsed)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, []int64{42}, meta.LatencyMS)
	assert.Equal(t, []string{extract.StageJSONParse}, meta.Stages)
	assert.True(t, meta.Validated)
	b.AssertExpectations(t)
}

func TestExtractResume_CascadeFallsThroughToThirdBackend(t *testing.T) {
	b1 := newBackend("m1")
	b1.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()
	b2 := newBackend("m2")
	b2.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("status 503")).Once()
	b3 := newBackend("m3")
	b3.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: validResumeJSON, LatencyMS: 10}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b1, b2, b3})
	resume, meta, err := e.ExtractResume(context.Background(), "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.FullName)
	assert.Equal(t, "m3", meta.ModelUsed)
	// Attempts count only the winning backend's calls.
	assert.Equal(t, 1, meta.Attempts)
	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
	b3.AssertExpectations(t)
}

func TestExtractResume_MalformedJSONRepairedOnRetry(t *testing.T) {
	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: "Sure! Here you go."}, nil).Once()
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: "```json\n" + validResumeJSON + "\n```"}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	resume, meta, err := e.ExtractResume(context.Background(), "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.FullName)
	assert.Equal(t, 2, meta.Attempts)
	assert.Equal(t, []string{extract.StageJSONParseRetry}, meta.Stages)
	b.AssertExpectations(t)
}

func TestExtractResume_ValidationFailureCorrectedOnSameBackend(t *testing.T) {
	// Passes the JSON schema but fails canonical validation: full_name
	// collapses to empty.
	invalid := strings.Replace(validResumeJSON, `"Ada Lovelace"`, `"   "`, 1)

	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: invalid}, nil).Once()
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: validResumeJSON}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	resume, meta, err := e.ExtractResume(context.Background(), "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.FullName)
	assert.Equal(t, []string{extract.StageJSONParse, extract.StageValidationRetry}, meta.Stages)
	assert.True(t, meta.Validated)
	b.AssertExpectations(t)
}

func TestExtractJob_Succeeds(t *testing.T) {
	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Content: validJobJSON}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	job, meta, err := e.ExtractJob(context.Background(), "Senior Go engineer, fintech")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "PostgreSQL"}, job.RequiredSkills)
	require.NotNil(t, job.Domain)
	assert.Equal(t, "fintech", *job.Domain)
	assert.Equal(t, domain.TargetJobDescription, meta.Target)
	b.AssertExpectations(t)
}

func TestExtract_AllBackendsExhausted(t *testing.T) {
	b1 := newBackend("m1")
	b1.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("status 500")).Once()
	b2 := newBackend("m2")
	b2.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("status 429")).Once()

	e := extract.NewExtractor([]port.ChatBackend{b1, b2})
	_, _, err := e.ExtractResume(context.Background(), "some text")
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrAllBackendsExhausted)
	assert.Contains(t, err.Error(), "m1:http:status 500")
	assert.Contains(t, err.Error(), "m2:http:status 429")
}

func TestExtract_FailureReportCapped(t *testing.T) {
	var backends []port.ChatBackend
	for _, name := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8"} {
		b := newBackend(name)
		b.On("Complete", mock.Anything, mock.Anything).
			Return(nil, errors.New("boom "+name)).Once()
		backends = append(backends, b)
	}

	e := extract.NewExtractor(backends)
	_, _, err := e.ExtractResume(context.Background(), "some text")
	require.Error(t, err)

	var cascadeErr *extract.CascadeError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Len(t, cascadeErr.Failures, 6)
	assert.Equal(t, 2, cascadeErr.Suppressed)
	assert.Contains(t, err.Error(), "(+2 more)")
}

func TestExtract_EmptyInput(t *testing.T) {
	e := extract.NewExtractor([]port.ChatBackend{newBackend("m1")})

	_, _, err := e.ExtractResume(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestExtract_InputTruncated(t *testing.T) {
	long := strings.Repeat("a", 20000)

	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.MatchedBy(func(req port.ChatRequest) bool {
		return len(req.Messages) == 2 && len(req.Messages[1].Content) == 12000
	})).Return(&port.ChatResponse{Content: validResumeJSON}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	_, _, err := e.ExtractResume(context.Background(), long)
	require.NoError(t, err)
	b.AssertExpectations(t)
}

func TestExtract_TruncationKeepsRunesIntact(t *testing.T) {
	// Two bytes per rune, so a byte-boundary cut at 12000 would split one.
	long := strings.Repeat("é", 13001)

	b := newBackend("m1")
	b.On("Complete", mock.Anything, mock.MatchedBy(func(req port.ChatRequest) bool {
		content := req.Messages[1].Content
		return utf8.ValidString(content) && utf8.RuneCountInString(content) == 12000
	})).Return(&port.ChatResponse{Content: validResumeJSON}, nil).Once()

	e := extract.NewExtractor([]port.ChatBackend{b})
	_, _, err := e.ExtractResume(context.Background(), long)
	require.NoError(t, err)
	b.AssertExpectations(t)
}
