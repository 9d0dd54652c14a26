package services

import (
	"context"

	"prohire/resume-screener/internal/models"
)

// Attachment is binary content sent inline alongside a message, e.g. a page
// of a scanned resume.
type Attachment struct {
	MIMEType string
	Data     []byte
}

type Message struct {
	Text        string
	Attachments []Attachment
}

type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int32
}

type Completion struct {
	Text  string
	Usage *models.TokenUsage
}

// CompletionClient is the external text/vision model. Implementations make a
// single attempt per call; callers decide how to degrade on failure.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
