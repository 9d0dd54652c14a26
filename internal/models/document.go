package models

// UploadedDocument lives only for the duration of one analysis request.
type UploadedDocument struct {
	Filename    string
	Data        []byte
	ContentType string
	Size        int64
}
