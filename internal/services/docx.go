package services

import (
	"archive/zip"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

const docxFailure = "Unable to extract text from DOCX file. Please ensure the file is not corrupted."

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxRun          = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>|<w:tab/>|<w:br/>`)
	docxTextRun      = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]+)</w:t>`)
)

type docxExtractor struct {
	log *zap.Logger
}

func NewDOCXExtractor(log *zap.Logger) TextExtractor {
	return &docxExtractor{log: log}
}

func (d *docxExtractor) Extract(_ context.Context, filePath string) Extraction {
	text, err := docxParagraphText(filePath)
	if err != nil {
		d.log.Debug("docx reader failed, scanning archive", zap.String("path", filePath), zap.Error(err))
	}
	if nonBlank(text) {
		return Extracted(text)
	}

	text, err = docxArchiveText(filePath)
	if err != nil {
		d.log.Debug("docx archive scan failed", zap.String("path", filePath), zap.Error(err))
	}
	if nonBlank(text) {
		return Extracted(text)
	}

	return ExtractionFailed(docxFailure)
}

// docxParagraphText rebuilds each <w:p> paragraph from its runs.
func docxParagraphText(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	var lines []string
	for _, para := range docxParagraphEnd.Split(content, -1) {
		var b strings.Builder
		for _, m := range docxRun.FindAllStringSubmatch(para, -1) {
			switch m[0] {
			case "<w:tab/>":
				b.WriteByte('\t')
			case "<w:br/>":
				b.WriteByte('\n')
			default:
				b.WriteString(html.UnescapeString(m[1]))
			}
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}

// docxArchiveText opens the package as a plain zip and collects every text
// run from word/document.xml, dropping case-insensitive duplicates.
func docxArchiveText(filePath string) (string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer zr.Close()

	var xml []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document part: %w", err)
		}
		xml, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read document part: %w", err)
		}
		break
	}
	if xml == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, m := range docxTextRun.FindAllSubmatch(xml, -1) {
		line := strings.TrimSpace(html.UnescapeString(string(m[1])))
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, line)
	}

	return strings.Join(unique, "\n"), nil
}
