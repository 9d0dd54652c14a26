package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"prohire/resume-screener/internal/middleware"
	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/services"
)

var tokens = middleware.NewTokenService("test-secret", time.Hour)

func bearer(t *testing.T, recruiter string) string {
	t.Helper()
	token, err := tokens.IssueToken(recruiter)
	require.NoError(t, err)
	return "Bearer " + token
}

type fakeScreening struct {
	got     *services.BatchRequest
	outcome *services.BatchOutcome
	err     error
}

func (f *fakeScreening) ProcessBatch(_ context.Context, req services.BatchRequest) (*services.BatchOutcome, error) {
	f.got = &req
	return f.outcome, f.err
}

type fakeBlobs struct {
	blobs map[string]*services.Blob
	err   error
}

func (f *fakeBlobs) Put(context.Context, []byte, services.BlobMetadata) (string, error) {
	return "", nil
}

func (f *fakeBlobs) Get(_ context.Context, id string) (*services.Blob, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.blobs[id]; ok {
		return b, nil
	}
	return nil, services.ErrBlobNotFound
}

type fakeReports struct {
	summary  []models.RecruiterSummary
	report   *models.ReportResponse
	err      error
	dateType string
}

func (f *fakeReports) Summary(context.Context) ([]models.RecruiterSummary, error) {
	return f.summary, f.err
}

func (f *fakeReports) Report(_ context.Context, dateType string) (*models.ReportResponse, error) {
	f.dateType = dateType
	if f.err != nil {
		return nil, f.err
	}
	r := *f.report
	r.DateType = dateType
	return &r, nil
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

// multipartRequest builds a POST with the given form fields and files.
func multipartRequest(t *testing.T, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}
