package services

import (
	"context"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const docFailure = "Unable to extract text from DOC file. Please convert to PDF or DOCX format."

const (
	minHTMLTextLen  = 10
	minPlainTextLen = 50
)

var (
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
	whitespace   = regexp.MustCompile(`\s+`)
	nonPrintable = regexp.MustCompile(`[^\x20-\x7E\n\r\t]`)
	htmlMarkers  = []string{"<html", "<body", "<div", "<p", "<table"}
)

type docDecoding struct {
	name    string
	decoder *encoding.Decoder // nil means UTF-8
}

// Tried in order; the first decoding that yields usable text wins.
var docDecodings = []docDecoding{
	{name: "utf-8"},
	{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
	{name: "cp1252", decoder: charmap.Windows1252.NewDecoder()},
	{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder()},
}

type docExtractor struct {
	log *zap.Logger
}

// NewDOCExtractor handles legacy Word files heuristically: many .doc uploads
// are HTML exports or plain text with a .doc suffix.
func NewDOCExtractor(log *zap.Logger) TextExtractor {
	return &docExtractor{log: log}
}

func (d *docExtractor) Extract(_ context.Context, filePath string) Extraction {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		d.log.Debug("doc read failed", zap.String("path", filePath), zap.Error(err))
		return ExtractionFailed(docFailure)
	}

	for _, dec := range docDecodings {
		content, ok := decodeDOC(raw, dec)
		if !ok {
			continue
		}
		if text, ok := docText(content); ok {
			d.log.Debug("doc decoded", zap.String("encoding", dec.name))
			return Extracted(text)
		}
	}

	return ExtractionFailed(docFailure)
}

func decodeDOC(raw []byte, dec docDecoding) (string, bool) {
	if dec.decoder == nil {
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	}
	out, err := dec.decoder.Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func docText(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, marker := range htmlMarkers {
		if !strings.Contains(lower, marker) {
			continue
		}
		if stripped := StripHTMLTags(content); utf8.RuneCountInString(stripped) > minHTMLTextLen {
			return stripped, true
		}
		break
	}

	cleaned := strings.TrimSpace(whitespace.ReplaceAllString(nonPrintable.ReplaceAllString(content, " "), " "))
	if len(cleaned) > minPlainTextLen {
		return cleaned, true
	}
	return "", false
}

// StripHTMLTags replaces tags with spaces and collapses whitespace.
func StripHTMLTags(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(htmlTag.ReplaceAllString(s, " "), " "))
}
