package services

import (
	"context"
	"strings"
)

// FailureMarker prefixes the text fed to the model when extraction failed.
const FailureMarker = "❌ "

// Extraction is the result of turning a document into text. Exactly one of
// Text or Reason is meaningful, as reported by Failed.
type Extraction struct {
	Text   string
	Reason string
	failed bool
}

func Extracted(text string) Extraction {
	return Extraction{Text: text}
}

func ExtractionFailed(reason string) Extraction {
	return Extraction{Reason: reason, failed: true}
}

func (e Extraction) Failed() bool {
	return e.failed
}

// PromptText is what goes into the screening prompt. A failed extraction
// still produces text so the model can report that nothing matched.
func (e Extraction) PromptText() string {
	if e.failed {
		return FailureMarker + e.Reason
	}
	return e.Text
}

// TextExtractor converts a file on disk to text. It never returns an error;
// failures come back as a failed Extraction.
type TextExtractor interface {
	Extract(ctx context.Context, filePath string) Extraction
}

// nonBlank reports whether s has any non-whitespace content.
func nonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
