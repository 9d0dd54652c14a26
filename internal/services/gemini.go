package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"prohire/resume-screener/internal/models"
)

// contentGenerator is the slice of genai.Models the service uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models         contentGenerator
	modelName      string
	timeout        time.Duration
	thinkingBudget int32
	log            *zap.Logger
}

type GeminiOptions struct {
	APIKey    string
	ModelName string
	// Timeout bounds each Complete call. Zero disables it.
	Timeout time.Duration
	// ThinkingBudget caps reasoning tokens, which count against MaxTokens.
	// Zero turns thinking off; -1 lets the model decide.
	ThinkingBudget int32
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (CompletionClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, opts, log), nil
}

func newGeminiService(models contentGenerator, opts GeminiOptions, log *zap.Logger) *geminiService {
	name := opts.ModelName
	if name == "" {
		name = "gemini-2.5-flash"
	}
	return &geminiService{
		models:         models,
		modelName:      name,
		timeout:        opts.Timeout,
		thinkingBudget: opts.ThinkingBudget,
		log:            log,
	}
}

// Complete implements CompletionClient.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("completion request has no messages")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		parts := make([]*genai.Part, 0, len(msg.Attachments)+1)
		for _, att := range msg.Attachments {
			parts = append(parts, genai.NewPartFromBytes(att.Data, att.MIMEType))
		}
		if msg.Text != "" {
			parts = append(parts, genai.NewPartFromText(msg.Text))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(g.thinkingBudget),
		},
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		g.log.Warn("gemini call failed", zap.String("model", g.modelName), zap.Error(err))
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return nil, errors.New("no response generated (nil response)")
	}

	g.log.Debug("gemini response received",
		zap.String("model", g.modelName),
		zap.Duration("elapsed", time.Since(start)),
	)
	for _, c := range resp.Candidates {
		if c != nil && c.FinishReason == genai.FinishReasonMaxTokens {
			g.log.Warn("gemini response cut off at token limit",
				zap.String("model", g.modelName),
				zap.Int32("max_tokens", req.MaxTokens),
			)
			break
		}
	}

	completion := &Completion{Text: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		completion.Usage = &models.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return completion, nil
}
