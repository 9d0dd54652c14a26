package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	imageOCRPrompt      = "Please extract all the text from this image. Return only the extracted text without any additional formatting or explanations."
	imageOCRTemperature = 0.1
	imageOCRMaxTokens   = 1000
	imageOCREmpty       = "Could not extract text from this image. Please ensure the image contains clear, readable text."
)

type imageExtractor struct {
	vision CompletionClient
	log    *zap.Logger
}

func NewImageExtractor(vision CompletionClient, log *zap.Logger) TextExtractor {
	return &imageExtractor{vision: vision, log: log}
}

func (e *imageExtractor) Extract(ctx context.Context, filePath string) Extraction {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ExtractionFailed(fmt.Sprintf("Error extracting text from image: %v", err))
	}

	contentType := SniffFormat(filePath, "", data).ContentType
	if KindForContentType(contentType) != KindImage {
		contentType = "image/jpeg"
	}

	data, contentType, err = visionImage(data, contentType)
	if err != nil {
		e.log.Warn("image conversion failed", zap.String("path", filePath), zap.Error(err))
		return ExtractionFailed(fmt.Sprintf("Error extracting text from image: %v", err))
	}

	resp, err := e.vision.Complete(ctx, CompletionRequest{
		Messages: []Message{{
			Text:        imageOCRPrompt,
			Attachments: []Attachment{{MIMEType: contentType, Data: data}},
		}},
		Temperature: imageOCRTemperature,
		MaxTokens:   imageOCRMaxTokens,
	})
	if err != nil {
		e.log.Warn("image text extraction failed", zap.String("path", filePath), zap.Error(err))
		return ExtractionFailed(fmt.Sprintf("Error extracting text from image: %v", err))
	}

	if text := strings.TrimSpace(resp.Text); text != "" {
		return Extracted(text)
	}
	return ExtractionFailed(imageOCREmpty)
}

// visionImageTypes are the inline image types the vision model accepts.
var visionImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// visionImage re-encodes GIF, BMP and TIFF uploads as PNG.
func visionImage(data []byte, contentType string) ([]byte, string, error) {
	if visionImageTypes[contentType] {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", contentType, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}
