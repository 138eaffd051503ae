package evaluation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nefera/internal/domain"
	"nefera/internal/evaluation"
	"nefera/internal/schema"
	"nefera/mocks"
)

func rubric() map[string]interface{} {
	return map[string]interface{}{
		"weights": map[string]interface{}{
			"required_skills": 0.2,
			"experience":      0.2,
			"domain_match":    0.2,
			"projects":        0.2,
			"education":       0.2,
		},
		"thresholds": map[string]interface{}{
			"auto_advance":    80,
			"manual_review":   60,
			"borderline_band": 1.0,
		},
	}
}

func fixtures() (schema.StructuredResume, schema.StructuredJobDescription) {
	edu := "Bachelor"
	dom := "fintech"
	resume := schema.StructuredResume{
		FullName:             "Ada Lovelace",
		Skills:               []string{"Go", "PostgreSQL"},
		TotalYearsExperience: 8,
		Education:            []string{"Bachelor of Engineering"},
		Projects:             []string{"Billing platform"},
		Domains:              []string{"fintech"},
	}
	job := schema.StructuredJobDescription{
		RequiredSkills:         []string{"Go", "PostgreSQL"},
		MinimumYearsExperience: 5,
		RequiredEducation:      &edu,
		Domain:                 &dom,
	}
	return resume, job
}

func TestRun_PerfectFitAutoAdvances(t *testing.T) {
	resume, job := fixtures()

	notifier := new(mocks.MockNotifier)
	notifier.On("SendInterviewInvitation", mock.Anything, "Ada Lovelace").Return(nil).Once()

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume: resume,
		Job:    job,
		Rubric: rubric(),
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, outcome.TotalScore)
	assert.Equal(t, domain.DecisionAutoAdvance, outcome.Decision)
	assert.True(t, outcome.ActionTriggered)
	require.NotNil(t, outcome.ActionType)
	assert.Equal(t, domain.ActionInterviewInvitation, *outcome.ActionType)
	notifier.AssertExpectations(t)
}

func TestRun_NoFitRejects(t *testing.T) {
	_, job := fixtures()
	resume := schema.StructuredResume{FullName: "Bob", Skills: []string{"Cobol"}}

	notifier := new(mocks.MockNotifier)
	notifier.On("SendRejectionNotice", mock.Anything, "Bob").Return(nil).Once()

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume: resume,
		Job:    job,
		Rubric: rubric(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, outcome.TotalScore)
	assert.Equal(t, domain.DecisionReject, outcome.Decision)
	assert.True(t, outcome.ActionTriggered)
	require.NotNil(t, outcome.ActionType)
	assert.Equal(t, domain.ActionRejectionNotice, *outcome.ActionType)
	notifier.AssertExpectations(t)
}

func TestRun_ManualReviewDispatchesNothing(t *testing.T) {
	resume, job := fixtures()
	// Drop projects and education evidence to land between the thresholds.
	resume.Projects = nil
	resume.Education = nil

	notifier := new(mocks.MockNotifier)

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume: resume,
		Job:    job,
		Rubric: rubric(),
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, outcome.TotalScore)
	assert.Equal(t, domain.DecisionManualReview, outcome.Decision)
	assert.False(t, outcome.ActionTriggered)
	assert.Nil(t, outcome.ActionType)
	notifier.AssertNotCalled(t, "SendInterviewInvitation", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendRejectionNotice", mock.Anything, mock.Anything)
}

func TestRun_MissingRubric(t *testing.T) {
	resume, job := fixtures()

	o := evaluation.NewOrchestrator(nil, new(mocks.MockNotifier))
	_, err := o.Run(context.Background(), evaluation.Input{Resume: resume, Job: job})
	assert.ErrorIs(t, err, domain.ErrMissingRubric)
}

func TestRun_SeniorityBoostApplied(t *testing.T) {
	resume, job := fixtures()
	// Remove education evidence: base score 80, boost pushes past it.
	resume.Education = nil

	notifier := new(mocks.MockNotifier)
	notifier.On("SendInterviewInvitation", mock.Anything, "Ada Lovelace").Return(nil).Once()

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume:        resume,
		Job:           job,
		Rubric:        rubric(),
		ResumeRawText: "Senior engineer. Led a platform team and managed roadmap.",
		JobRawText:    "Hiring a senior backend engineer.",
	})
	require.NoError(t, err)

	assert.Equal(t, 82.0, outcome.TotalScore)
	require.NotNil(t, outcome.Breakdown.Boosts)
	assert.Equal(t, 2.0, outcome.Breakdown.Boosts.Points)
	assert.Len(t, outcome.Breakdown.Boosts.Signals, 2)
	assert.Equal(t, 82.0, outcome.Breakdown.TotalScore)
}

func TestRun_BoostSkippedWithoutRawText(t *testing.T) {
	resume, job := fixtures()
	resume.Education = nil

	notifier := new(mocks.MockNotifier)
	notifier.On("SendInterviewInvitation", mock.Anything, "Ada Lovelace").Return(nil).Once()

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume:        resume,
		Job:           job,
		Rubric:        rubric(),
		ResumeRawText: "Senior engineer. Led a platform team.",
	})
	require.NoError(t, err)

	assert.Equal(t, 80.0, outcome.TotalScore)
	assert.Nil(t, outcome.Breakdown.Boosts)
}

func TestRun_ConfidenceDegradesWithFallbacks(t *testing.T) {
	resume, job := fixtures()

	run := func(resumeFallback, jobFallback bool) float64 {
		notifier := new(mocks.MockNotifier)
		notifier.On("SendInterviewInvitation", mock.Anything, mock.Anything).Return(nil)
		o := evaluation.NewOrchestrator(nil, notifier)
		outcome, err := o.Run(context.Background(), evaluation.Input{
			Resume:             resume,
			Job:                job,
			Rubric:             rubric(),
			ResumeFromFallback: resumeFallback,
			JobFromFallback:    jobFallback,
		})
		require.NoError(t, err)
		return outcome.ConfidenceScore
	}

	nominal := run(false, false)
	one := run(true, false)
	both := run(true, true)

	assert.InDelta(t, 1.0, nominal, 1e-9)
	assert.InDelta(t, 0.88, one, 1e-9)
	assert.InDelta(t, 0.76, both, 1e-9)
	assert.Greater(t, nominal, one)
	assert.Greater(t, one, both)
}

func TestRun_NotifierFailureDoesNotFailRun(t *testing.T) {
	resume, job := fixtures()

	notifier := new(mocks.MockNotifier)
	notifier.On("SendInterviewInvitation", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	o := evaluation.NewOrchestrator(nil, notifier)
	outcome, err := o.Run(context.Background(), evaluation.Input{
		Resume: resume,
		Job:    job,
		Rubric: rubric(),
	})
	require.NoError(t, err)

	assert.False(t, outcome.ActionTriggered)
	require.NotNil(t, outcome.ActionType)
	assert.Equal(t, domain.ActionInterviewInvitation, *outcome.ActionType)
}
