package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gcsObjectPrefix = "resumes/"

type gcsBlobStore struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

// NewGCSBlobStore keeps resumes as objects in bucket, with the blob metadata
// stored as object metadata. timeout bounds each Put and Get.
func NewGCSBlobStore(ctx context.Context, bucket string, timeout time.Duration, opts ...option.ClientOption) (BlobStore, func() error, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &gcsBlobStore{client: client, bucket: bucket, timeout: timeout}, client.Close, nil
}

func (s *gcsBlobStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *gcsBlobStore) Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := uuid.New().String()
	w := s.client.Bucket(s.bucket).Object(gcsObjectPrefix + id).NewWriter(ctx)
	w.ContentType = meta.ContentType
	w.Metadata = encodeGCSMetadata(meta)

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write gs://%s/%s%s: %w", s.bucket, gcsObjectPrefix, id, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
	}

	return id, nil
}

func (s *gcsBlobStore) Get(ctx context.Context, id string) (*Blob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBlobNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	obj := s.client.Bucket(s.bucket).Object(gcsObjectPrefix + id)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if isGCSNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read object attributes: %w", err)
	}

	r, err := obj.NewReader(ctx)
	if err != nil {
		if isGCSNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}

	meta := decodeGCSMetadata(attrs.Metadata)
	if meta.ContentType == "" {
		meta.ContentType = attrs.ContentType
	}
	return &Blob{Metadata: meta, Data: data}, nil
}

func isGCSNotFound(err error) bool {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func encodeGCSMetadata(meta BlobMetadata) map[string]string {
	return map[string]string{
		"filename":       meta.Filename,
		"content_type":   meta.ContentType,
		"upload_date":    meta.UploadDate.UTC().Format(time.RFC3339),
		"recruiter_name": meta.RecruiterName,
		"file_size":      strconv.FormatInt(meta.FileSize, 10),
	}
}

func decodeGCSMetadata(m map[string]string) BlobMetadata {
	meta := BlobMetadata{
		Filename:      m["filename"],
		ContentType:   m["content_type"],
		RecruiterName: m["recruiter_name"],
	}
	if t, err := time.Parse(time.RFC3339, m["upload_date"]); err == nil {
		meta.UploadDate = t
	}
	if n, err := strconv.ParseInt(m["file_size"], 10, 64); err == nil {
		meta.FileSize = n
	}
	return meta
}
