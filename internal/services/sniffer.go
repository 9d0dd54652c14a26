package services

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type ExtractorKind string

const (
	KindPDF     ExtractorKind = "pdf"
	KindDOCX    ExtractorKind = "docx"
	KindDOC     ExtractorKind = "doc"
	KindImage   ExtractorKind = "image"
	KindUnknown ExtractorKind = "unknown"
)

const (
	OctetStream = "application/octet-stream"
	mimePDF     = "application/pdf"
	mimeDOCX    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC     = "application/msword"
)

type Format struct {
	ContentType string
	Kind        ExtractorKind
}

type signature struct {
	offset      int
	magic       []byte
	contentType string
}

var signatures = []signature{
	{0, []byte("%PDF-"), mimePDF},
	{0, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{0, []byte("GIF87a"), "image/gif"},
	{0, []byte("GIF89a"), "image/gif"},
	{0, []byte("BM"), "image/bmp"},
	{0, []byte("II*\x00"), "image/tiff"},
	{0, []byte("MM\x00*"), "image/tiff"},
}

var extensionTypes = map[string]string{
	".pdf":  mimePDF,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".docx": mimeDOCX,
	".doc":  mimeDOC,
}

// Upload suffixes the screening pipeline accepts, by extractor.
var suffixKinds = map[string]ExtractorKind{
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".doc":  KindDOC,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".tiff": KindImage,
	".webp": KindImage,
}

// SniffFormat resolves the content type of an upload. A specific declared
// type wins, then leading bytes, then the filename extension. It never fails;
// unknown input is application/octet-stream.
func SniffFormat(filename, declared string, buf []byte) Format {
	if ct := normalizeContentType(declared); ct != "" && ct != OctetStream {
		return Format{ContentType: ct, Kind: KindForContentType(ct)}
	}

	if ct := sniffBytes(buf); ct != "" {
		return Format{ContentType: ct, Kind: KindForContentType(ct)}
	}

	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return Format{ContentType: ct, Kind: KindForContentType(ct)}
	}

	return Format{ContentType: OctetStream, Kind: KindUnknown}
}

func sniffBytes(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	for _, sig := range signatures {
		if len(buf) >= sig.offset+len(sig.magic) && bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
			return sig.contentType
		}
	}
	if len(buf) >= 12 && bytes.Equal(buf[0:4], []byte("RIFF")) && bytes.Equal(buf[8:12], []byte("WEBP")) {
		return "image/webp"
	}

	// Word containers (OLE2, OOXML zip) have no single fixed signature.
	detected := mimetype.Detect(buf)
	switch {
	case detected.Is(mimeDOCX):
		return mimeDOCX
	case detected.Is(mimeDOC):
		return mimeDOC
	}
	return ""
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func KindForContentType(ct string) ExtractorKind {
	switch ct = normalizeContentType(ct); {
	case ct == mimePDF:
		return KindPDF
	case ct == mimeDOCX:
		return KindDOCX
	case ct == mimeDOC:
		return KindDOC
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	default:
		return KindUnknown
	}
}

// ExtractorKindForSuffix maps a lowercased upload suffix such as ".pdf" to
// its extractor. Anything else is KindUnknown and is rejected per file.
func ExtractorKindForSuffix(suffix string) ExtractorKind {
	if kind, ok := suffixKinds[strings.ToLower(suffix)]; ok {
		return kind
	}
	return KindUnknown
}
