package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/services"
)

var pdfBytes = []byte("%PDF-1.4\n%resume")

func newResumeApp(blobs services.BlobStore) *fiber.App {
	app := fiber.New()
	h := NewResumeHandler(blobs, zap.NewNop())
	app.Get("/download-resume/:file_id", h.HandleDownload)
	app.Get("/view-resume/:file_id", h.HandleView)
	return app
}

func storedBlobs() *fakeBlobs {
	return &fakeBlobs{blobs: map[string]*services.Blob{
		"pdf-1": {
			Metadata: services.BlobMetadata{Filename: "jane.pdf", ContentType: "application/pdf"},
			Data:     pdfBytes,
		},
		"untyped": {
			Metadata: services.BlobMetadata{Filename: "jane.pdf", ContentType: services.OctetStream},
			Data:     pdfBytes,
		},
	}}
}

func TestHandleDownload(t *testing.T) {
	app := newResumeApp(storedBlobs())

	for _, id := range []string{"pdf-1", "untyped"} {
		t.Run(id, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/download-resume/"+id, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
			assert.Equal(t, `attachment; filename="jane.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, pdfBytes, body)
		})
	}
}

func TestHandleView(t *testing.T) {
	app := newResumeApp(storedBlobs())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/view-resume/untyped", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ViewResumeResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "jane.pdf", body.Filename)
	assert.Equal(t, "application/pdf", body.ContentType)
	assert.Equal(t, len(pdfBytes), body.Size)

	decoded, err := base64.StdEncoding.DecodeString(body.Content)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, decoded)
}

func TestResumeHandler_NotFound(t *testing.T) {
	tests := map[string]*fakeBlobs{
		"missing":       storedBlobs(),
		"backend error": {err: errors.New("bucket unavailable")},
	}

	for name, blobs := range tests {
		t.Run(name, func(t *testing.T) {
			app := newResumeApp(blobs)
			for _, path := range []string{"/download-resume/nope", "/view-resume/nope"} {
				resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
				require.NoError(t, err)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				var body map[string]string
				decodeJSON(t, resp, &body)
				assert.Equal(t, fileNotFoundDetail, body["detail"])
			}
		})
	}
}
