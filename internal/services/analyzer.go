package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"prohire/resume-screener/internal/logger"
	"prohire/resume-screener/internal/models"
)

const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 800

	responseLogLimit = 200
)

// ErrInvalidProfile is returned for a hiring type and level pair without a
// screening template. The model is not called.
var ErrInvalidProfile = errors.New("invalid hiring type or level")

// AnalysisError wraps a failed model call.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("Analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

type ScreeningVerdict struct {
	Verdict
	Usage *models.TokenUsage
}

type Analyzer interface {
	// Supports reports whether profile can be screened at all.
	Supports(profile HiringProfile) bool
	Analyze(ctx context.Context, jobDescription, resumeText string, profile HiringProfile) (*ScreeningVerdict, error)
}

type analyzer struct {
	prompts *PromptBuilder
	model   CompletionClient
	log     *zap.Logger
}

func NewAnalyzer(prompts *PromptBuilder, model CompletionClient, log *zap.Logger) Analyzer {
	return &analyzer{prompts: prompts, model: model, log: log}
}

func (a *analyzer) Supports(profile HiringProfile) bool {
	return a.prompts.Valid(profile)
}

func (a *analyzer) Analyze(ctx context.Context, jobDescription, resumeText string, profile HiringProfile) (*ScreeningVerdict, error) {
	prompt := a.prompts.Build(jobDescription, resumeText, profile)
	if prompt == "" {
		return nil, ErrInvalidProfile
	}

	resp, err := a.model.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Text: prompt}},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	verdict := ParseVerdict(resp.Text)
	a.log.Debug("resume analyzed",
		zap.Int("match_percent", verdict.MatchPercent),
		zap.String("decision", string(verdict.Decision)),
		zap.String("response", logger.TruncateForLog(resp.Text, responseLogLimit)),
	)

	return &ScreeningVerdict{Verdict: verdict, Usage: resp.Usage}, nil
}
