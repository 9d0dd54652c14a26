package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"prohire/resume-screener/internal/models"
)

func TestAnalyzer_InvalidProfileSkipsModel(t *testing.T) {
	model := replyWith("Match %: 90\nDecision: ✅ Shortlist")
	a := NewAnalyzer(NewPromptBuilder(), model, zap.NewNop())

	v, err := a.Analyze(context.Background(), "jd", "resume", HiringProfile{HiringType: "9", Level: "1"})

	require.ErrorIs(t, err, ErrInvalidProfile)
	assert.Nil(t, v)
	assert.Equal(t, 0, model.callCount())
	assert.Equal(t, "invalid hiring type or level", err.Error())
	assert.False(t, a.Supports(HiringProfile{HiringType: "9", Level: "1"}))
}

func TestAnalyzer_Shortlist(t *testing.T) {
	usage := &models.TokenUsage{PromptTokens: 900, CompletionTokens: 120, TotalTokens: 1020}
	model := &fakeCompletion{respond: func(CompletionRequest, int) (*Completion, error) {
		return &Completion{Text: "  Match %: 81%\nDecision: ✅ Shortlist\n", Usage: usage}, nil
	}}
	a := NewAnalyzer(NewPromptBuilder(), model, zap.NewNop())

	v, err := a.Analyze(context.Background(), "Backend engineer", "Go, Postgres", HiringProfile{HiringType: "2", Level: "2"})

	require.NoError(t, err)
	assert.Equal(t, 81, v.MatchPercent)
	assert.Equal(t, models.DecisionShortlisted, v.Decision)
	assert.Equal(t, "Match %: 81%\nDecision: ✅ Shortlist", v.ResultText)
	assert.Equal(t, usage, v.Usage)

	require.Equal(t, 1, model.callCount())
	req := model.calls[0]
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	assert.Equal(t, int32(800), req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Text, "Go, Postgres")
	assert.Empty(t, req.Messages[0].Attachments)
}

func TestAnalyzer_ThresholdAppliesToModelOutput(t *testing.T) {
	a := NewAnalyzer(NewPromptBuilder(), replyWith("Match %: 50\nDecision: ✅ Shortlist"), zap.NewNop())

	v, err := a.Analyze(context.Background(), "jd", "resume", HiringProfile{HiringType: "1", Level: "1"})

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, v.Decision)
	assert.Contains(t, v.ResultText, thresholdReason)
}

func TestAnalyzer_EmptyModelResponse(t *testing.T) {
	a := NewAnalyzer(NewPromptBuilder(), replyWith(""), zap.NewNop())

	v, err := a.Analyze(context.Background(), "jd", "resume", HiringProfile{HiringType: "4", Level: "2"})

	require.NoError(t, err)
	assert.Equal(t, 0, v.MatchPercent)
	assert.Equal(t, models.DecisionRejected, v.Decision)
	assert.Nil(t, v.Usage)
}

func TestAnalyzer_ModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	a := NewAnalyzer(NewPromptBuilder(), failWith(boom), zap.NewNop())

	v, err := a.Analyze(context.Background(), "jd", "resume", HiringProfile{HiringType: "3", Level: "1"})

	require.Error(t, err)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, boom)
	var analysisErr *AnalysisError
	assert.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "Analysis failed: quota exceeded", err.Error())
}

func TestAnalyzer_LogsFlattenedResponse(t *testing.T) {
	long := "Match %: 90\nDecision: ✅ Shortlist\n" + strings.Repeat("strong field sales record ", 20)
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAnalyzer(NewPromptBuilder(), replyWith(long), zap.New(core))

	_, err := a.Analyze(context.Background(), "jd", "resume", HiringProfile{HiringType: "1", Level: "2"})
	require.NoError(t, err)

	entries := logs.FilterMessage("resume analyzed").All()
	require.Len(t, entries, 1)
	logged, ok := entries[0].ContextMap()["response"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(logged, "Match %: 90 Decision: ✅ Shortlist strong"))
	assert.True(t, strings.HasSuffix(logged, "..."))
	assert.NotContains(t, logged, "\n")
	assert.Equal(t, responseLogLimit+3, utf8.RuneCountInString(logged))
}
