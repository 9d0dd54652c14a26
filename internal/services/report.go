package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/repositories"
)

var ErrInvalidDateType = errors.New("invalid report date")

type ReportService interface {
	// Summary returns lifetime totals per recruiter with their screened files,
	// newest batch first.
	Summary(ctx context.Context) ([]models.RecruiterSummary, error)
	// Report aggregates one UTC day: "today", "yesterday" or YYYY-MM-DD.
	Report(ctx context.Context, dateType string) (*models.ReportResponse, error)
}

type reportService struct {
	batches repositories.BatchRepository
	now     func() time.Time
}

func NewReportService(batches repositories.BatchRepository, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{batches: batches, now: now}
}

func (s *reportService) Summary(ctx context.Context) ([]models.RecruiterSummary, error) {
	totals, err := s.batches.SummaryByRecruiter(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.batches.HistoryNewestFirst(ctx)
	if err != nil {
		return nil, err
	}

	history := make(map[string][]models.HistoryEntry)
	for _, b := range batches {
		history[b.RecruiterName] = append(history[b.RecruiterName], b.History...)
	}

	summary := make([]models.RecruiterSummary, 0, len(totals))
	for _, t := range totals {
		entries := history[t.RecruiterName]

		perDay := make(map[string]int)
		for _, e := range entries {
			if e.UploadDate != "" {
				perDay[uploadDay(e.UploadDate)]++
			}
		}

		items := make([]models.SummaryHistoryItem, 0, len(entries))
		for _, e := range entries {
			item := models.SummaryHistoryItem{HistoryEntry: e}
			if e.UploadDate != "" {
				item.CountsPerDay = perDay[uploadDay(e.UploadDate)]
			}
			items = append(items, item)
		}

		summary = append(summary, models.RecruiterSummary{
			RecruiterName: t.RecruiterName,
			Uploads:       t.Uploads,
			Resumes:       t.TotalResumes,
			Shortlisted:   t.Shortlisted,
			Rejected:      t.Rejected,
			History:       items,
		})
	}
	return summary, nil
}

// uploadDay drops the weekday from "1st January 2024, Monday".
func uploadDay(uploadDate string) string {
	if i := strings.IndexByte(uploadDate, ','); i >= 0 {
		return uploadDate[:i]
	}
	return uploadDate
}

func (s *reportService) Report(ctx context.Context, dateType string) (*models.ReportResponse, error) {
	today := StartOfDayUTC(s.now())

	var start time.Time
	switch dateType {
	case "today":
		start = today
	case "yesterday":
		start = today.AddDate(0, 0, -1)
	default:
		parsed, err := time.Parse("2006-01-02", dateType)
		if err != nil {
			return nil, ErrInvalidDateType
		}
		start = parsed
	}

	totals, err := s.batches.TotalsBetween(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	reports := make([]models.ReportRow, 0, len(totals))
	for _, t := range totals {
		reports = append(reports, models.ReportRow{
			RecruiterName: t.RecruiterName,
			TotalResumes:  t.TotalResumes,
			Shortlisted:   t.Shortlisted,
			Rejected:      t.Rejected,
		})
	}

	return &models.ReportResponse{
		Date:     FormatDateWithDay(start),
		DateType: dateType,
		Reports:  reports,
	}, nil
}
