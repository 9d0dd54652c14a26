package handlers

import (
	"errors"
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

func newReportApp(reports services.ReportService) *fiber.App {
	app := fiber.New()
	h := NewReportHandler(reports, zap.NewNop())
	app.Get("/mis-summary", h.HandleSummary)
	app.Get("/daily-reports", h.HandleDaily)
	app.Get("/previous-day-reports", h.HandlePreviousDay)
	app.Get("/reports/:date_type", h.HandleByDate)
	return app
}

func TestHandleSummary(t *testing.T) {
	reports := &fakeReports{summary: []models.RecruiterSummary{{
		RecruiterName: "alice",
		Uploads:       2,
		Resumes:       3,
		History: []models.SummaryHistoryItem{{
			HistoryEntry: models.HistoryEntry{ResumeName: "a.pdf", UploadDate: "1st January 2024, Monday"},
			CountsPerDay: 1,
		}},
	}}}
	app := newReportApp(reports)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/mis-summary", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary []struct {
			RecruiterName string `json:"recruiter_name"`
			Resumes       int    `json:"resumes"`
			History       []struct {
				ResumeName   string `json:"resume_name"`
				CountsPerDay int    `json:"counts_per_day"`
			} `json:"history"`
		} `json:"summary"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Summary, 1)
	assert.Equal(t, "alice", body.Summary[0].RecruiterName)
	assert.Equal(t, 3, body.Summary[0].Resumes)
	require.Len(t, body.Summary[0].History, 1)
	assert.Equal(t, "a.pdf", body.Summary[0].History[0].ResumeName)
	assert.Equal(t, 1, body.Summary[0].History[0].CountsPerDay)
}

func TestReportRoutes(t *testing.T) {
	tests := []struct {
		path     string
		dateType string
		echoed   bool
	}{
		{path: "/daily-reports", dateType: "today"},
		{path: "/previous-day-reports", dateType: "yesterday"},
		{path: "/reports/2024-01-01", dateType: "2024-01-01", echoed: true},
		{path: "/reports/today", dateType: "today", echoed: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			reports := &fakeReports{report: &models.ReportResponse{
				Date:    "1st January 2024, Monday",
				Reports: []models.ReportRow{{RecruiterName: "alice", TotalResumes: 4}},
			}}
			app := newReportApp(reports)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]any
			decodeJSON(t, resp, &body)
			assert.Equal(t, tt.dateType, reports.dateType)
			assert.Equal(t, "1st January 2024, Monday", body["date"])
			assert.Len(t, body["reports"], 1)
			if tt.echoed {
				assert.Equal(t, tt.dateType, body["date_type"])
			} else {
				assert.NotContains(t, body, "date_type")
			}
		})
	}
}

func TestReportRoutes_Errors(t *testing.T) {
	app := newReportApp(&fakeReports{err: services.ErrInvalidDateType})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reports/tomorrow", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Invalid date format. Use 'today', 'yesterday', or YYYY-MM-DD", body["detail"])

	app = newReportApp(&fakeReports{err: errors.New("db down")})
	for _, path := range []string{"/mis-summary", "/daily-reports"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
}
