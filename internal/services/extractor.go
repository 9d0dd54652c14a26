package services

import (
	"go.uber.org/zap"
)

// Extractors maps each supported kind to its extractor.
type Extractors map[ExtractorKind]TextExtractor

func NewExtractors(vision CompletionClient, scratchDir string, log *zap.Logger) Extractors {
	return Extractors{
		KindPDF:   NewPDFExtractor(vision, scratchDir, log.Named("pdf")),
		KindDOCX:  NewDOCXExtractor(log.Named("docx")),
		KindDOC:   NewDOCExtractor(log.Named("doc")),
		KindImage: NewImageExtractor(vision, log.Named("image")),
	}
}

// For returns the extractor for kind, or nil when the kind is unsupported.
func (e Extractors) For(kind ExtractorKind) TextExtractor {
	return e[kind]
}
