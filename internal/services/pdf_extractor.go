package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/logger"
)

const (
	pdfOCRPrompt      = "Please extract all readable text from this image of a resume."
	pdfOCRTemperature = 0.3
	pdfOCRMaxTokens   = 1500
)

type pdfExtractor struct {
	ocr        CompletionClient
	scratchDir string
	log        *zap.Logger

	textLayer  func(filePath string) (string, error)
	splitPages func(filePath, outDir string) ([]string, error)
}

// NewPDFExtractor reads the text layer and falls back to page-by-page OCR
// through the vision model for scanned documents.
func NewPDFExtractor(ocr CompletionClient, scratchDir string, log *zap.Logger) TextExtractor {
	return &pdfExtractor{
		ocr:        ocr,
		scratchDir: scratchDir,
		log:        log,
		textLayer:  ExtractPDFText,
		splitPages: SplitPDFPages,
	}
}

func (p *pdfExtractor) Extract(ctx context.Context, filePath string) Extraction {
	text, err := p.textLayer(filePath)
	if err != nil {
		p.log.Debug("pdf text layer unreadable, trying OCR", zap.String("path", filePath), zap.Error(err))
	}
	if nonBlank(text) {
		return Extracted(strings.TrimSpace(text))
	}

	return p.ocrFallback(ctx, filePath)
}

func (p *pdfExtractor) ocrFallback(ctx context.Context, filePath string) Extraction {
	dir, err := os.MkdirTemp(p.scratchDir, "pdf-ocr-*")
	if err != nil {
		return ExtractionFailed(fmt.Sprintf("Error during OCR fallback: %v", err))
	}
	defer os.RemoveAll(dir)

	pages, err := p.splitPages(filePath, dir)
	if err != nil {
		return ExtractionFailed(fmt.Sprintf("Error during OCR fallback: %v", err))
	}

	var (
		texts   []string
		lastErr error
	)
	for i, pagePath := range pages {
		data, err := os.ReadFile(pagePath)
		if err != nil {
			lastErr = fmt.Errorf("failed to read page %d: %w", i+1, err)
			continue
		}

		resp, err := p.ocr.Complete(ctx, CompletionRequest{
			Messages: []Message{{
				Text:        pdfOCRPrompt,
				Attachments: []Attachment{{MIMEType: mimePDF, Data: data}},
			}},
			Temperature: pdfOCRTemperature,
			MaxTokens:   pdfOCRMaxTokens,
		})
		if err != nil {
			p.log.Warn("ocr page failed", zap.Int("page", i+1), zap.Error(err))
			lastErr = err
			continue
		}

		pageText := strings.TrimSpace(resp.Text)
		p.log.Debug("ocr page read",
			zap.Int("page", i+1),
			zap.Int("chars", len(pageText)),
			zap.String("text", logger.TruncateForLog(pageText, responseLogLimit)),
		)
		if pageText != "" {
			texts = append(texts, pageText)
		}
	}

	if len(texts) > 0 {
		return Extracted(strings.Join(texts, "\n"))
	}
	if lastErr != nil {
		return ExtractionFailed(fmt.Sprintf("Error during OCR fallback: %v", lastErr))
	}
	return ExtractionFailed("No text found in image using OCR.")
}

// SplitPDFPages writes one single-page PDF per page of filePath into outDir
// and returns their paths in page order.
func SplitPDFPages(filePath, outDir string) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCountFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	if err := api.SplitFile(filePath, outDir, 1, conf); err != nil {
		return nil, fmt.Errorf("failed to split PDF: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, filepath.Join(outDir, fmt.Sprintf("%s_%d.pdf", base, i)))
	}
	return pages, nil
}
