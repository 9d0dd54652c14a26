package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobMetadata travels with every stored resume.
type BlobMetadata struct {
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	UploadDate    time.Time `json:"upload_date"`
	RecruiterName string    `json:"recruiter_name"`
	FileSize      int64     `json:"file_size"`
}

type Blob struct {
	Metadata BlobMetadata
	Data     []byte
}

// BlobStore keeps uploaded resumes behind opaque ids.
type BlobStore interface {
	Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error)
	Get(ctx context.Context, id string) (*Blob, error)
}

type localBlobStore struct {
	uploadPath string
}

// NewLocalBlobStore stores each blob as <id> with a <id>.json metadata
// sidecar under uploadPath.
func NewLocalBlobStore(uploadPath string) (BlobStore, error) {
	s := &localBlobStore{uploadPath: uploadPath}
	if err := s.ensureUploadDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localBlobStore) ensureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *localBlobStore) Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.New().String()

	sidecar, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode blob metadata: %w", err)
	}

	if err := os.WriteFile(s.dataPath(id), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := os.WriteFile(s.metaPath(id), sidecar, 0644); err != nil {
		_ = os.Remove(s.dataPath(id))
		return "", fmt.Errorf("failed to save file metadata: %w", err)
	}

	return id, nil
}

func (s *localBlobStore) Get(ctx context.Context, id string) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Ids are uuids; anything else cannot name a stored file.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBlobNotFound
	}

	raw, err := os.ReadFile(s.metaPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file metadata: %w", err)
	}

	var meta BlobMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode file metadata: %w", err)
	}

	data, err := os.ReadFile(s.dataPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &Blob{Metadata: meta, Data: data}, nil
}

func (s *localBlobStore) dataPath(id string) string {
	return filepath.Join(s.uploadPath, id)
}

func (s *localBlobStore) metaPath(id string) string {
	return filepath.Join(s.uploadPath, id+".json")
}
