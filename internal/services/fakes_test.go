package services

import (
	"context"
	"os"
	"sync"
	"time"

	"prohire/resume-screener/internal/models"
)

type fakeCompletion struct {
	mu      sync.Mutex
	calls   []CompletionRequest
	respond func(req CompletionRequest, call int) (*Completion, error)
}

func (f *fakeCompletion) Complete(_ context.Context, req CompletionRequest) (*Completion, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	n := len(f.calls)
	f.mu.Unlock()

	if f.respond == nil {
		return &Completion{}, nil
	}
	return f.respond(req, n)
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func replyWith(text string) *fakeCompletion {
	return &fakeCompletion{respond: func(CompletionRequest, int) (*Completion, error) {
		return &Completion{Text: text}, nil
	}}
}

func failWith(err error) *fakeCompletion {
	return &fakeCompletion{respond: func(CompletionRequest, int) (*Completion, error) {
		return nil, err
	}}
}

// fakeExtractor records the paths it was given and whether each existed at
// the time of the call.
type fakeExtractor struct {
	result  Extraction
	paths   []string
	existed []bool
}

func (f *fakeExtractor) Extract(_ context.Context, filePath string) Extraction {
	_, err := os.Stat(filePath)
	f.paths = append(f.paths, filePath)
	f.existed = append(f.existed, err == nil)
	return f.result
}

type fakeBlobStore struct {
	err   error
	puts  []BlobMetadata
	blobs map[string]*Blob
}

func (f *fakeBlobStore) Put(_ context.Context, data []byte, meta BlobMetadata) (string, error) {
	f.puts = append(f.puts, meta)
	if f.err != nil {
		return "", f.err
	}
	if f.blobs == nil {
		f.blobs = make(map[string]*Blob)
	}
	id := meta.Filename + "-id"
	f.blobs[id] = &Blob{Metadata: meta, Data: data}
	return id, nil
}

func (f *fakeBlobStore) Get(_ context.Context, id string) (*Blob, error) {
	if b, ok := f.blobs[id]; ok {
		return b, nil
	}
	return nil, ErrBlobNotFound
}

type fakeBatchRepo struct {
	err     error
	created []*models.BatchRecord

	summary    []models.RecruiterTotals
	totals     []models.RecruiterTotals
	history    []models.BatchRecord
	start, end time.Time
}

func (f *fakeBatchRepo) Create(_ context.Context, batch *models.BatchRecord) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, batch)
	return nil
}

func (f *fakeBatchRepo) SummaryByRecruiter(context.Context) ([]models.RecruiterTotals, error) {
	return f.summary, f.err
}

func (f *fakeBatchRepo) TotalsBetween(_ context.Context, start, end time.Time) ([]models.RecruiterTotals, error) {
	f.start, f.end = start, end
	return f.totals, f.err
}

func (f *fakeBatchRepo) HistoryNewestFirst(context.Context) ([]models.BatchRecord, error) {
	return f.history, f.err
}
