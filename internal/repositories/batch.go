package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"prohire/resume-screener/internal/models"
)

// BatchRepository stores batch audit records. Records are only ever inserted.
type BatchRepository interface {
	Create(ctx context.Context, batch *models.BatchRecord) error
	SummaryByRecruiter(ctx context.Context) ([]models.RecruiterTotals, error)
	TotalsBetween(ctx context.Context, start, end time.Time) ([]models.RecruiterTotals, error)
	HistoryNewestFirst(ctx context.Context) ([]models.BatchRecord, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

// Create inserts the batch and its history entries in one transaction.
func (r *batchRepository) Create(ctx context.Context, batch *models.BatchRecord) error {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch record: %w", err)
	}
	return nil
}

const totalsSelect = "recruiter_name, " +
	"COUNT(*) AS uploads, " +
	"COALESCE(SUM(total_resumes), 0) AS total_resumes, " +
	"COALESCE(SUM(shortlisted), 0) AS shortlisted, " +
	"COALESCE(SUM(rejected), 0) AS rejected"

func (r *batchRepository) SummaryByRecruiter(ctx context.Context) ([]models.RecruiterTotals, error) {
	var rows []models.RecruiterTotals
	err := r.db.WithContext(ctx).
		Model(&models.BatchRecord{}).
		Select(totalsSelect).
		Group("recruiter_name").
		Order("recruiter_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate recruiter summary: %w", err)
	}
	return rows, nil
}

// TotalsBetween aggregates batches with start <= timestamp < end.
func (r *batchRepository) TotalsBetween(ctx context.Context, start, end time.Time) ([]models.RecruiterTotals, error) {
	var rows []models.RecruiterTotals
	err := r.db.WithContext(ctx).
		Model(&models.BatchRecord{}).
		Select(totalsSelect).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Group("recruiter_name").
		Order("recruiter_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate totals: %w", err)
	}
	return rows, nil
}

func (r *batchRepository) HistoryNewestFirst(ctx context.Context) ([]models.BatchRecord, error) {
	var batches []models.BatchRecord
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("timestamp DESC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load batch history: %w", err)
	}
	return batches, nil
}
