package models

import (
	"time"

	"github.com/google/uuid"
)

type Decision string

const (
	DecisionShortlisted   Decision = "Shortlisted"
	DecisionRejected      Decision = "Rejected"
	DecisionError         Decision = "Error"
	DecisionIndeterminate Decision = "-"
)

// BatchRecord is the append-only audit row written once per analysis request.
type BatchRecord struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterName string         `gorm:"type:text;not null;index" json:"recruiter_name"`
	TotalResumes  int            `gorm:"not null" json:"total_resumes"`
	Shortlisted   int            `gorm:"not null" json:"shortlisted"`
	Rejected      int            `gorm:"not null" json:"rejected"`
	Timestamp     time.Time      `gorm:"type:timestamptz;not null;index" json:"timestamp"`
	History       []HistoryEntry `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"history"`
}

func (BatchRecord) TableName() string {
	return "batch_records"
}

// HistoryEntry is one screened file inside a batch. Position keeps submission order.
type HistoryEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	BatchID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position     int       `gorm:"not null" json:"-"`
	ResumeName   string    `gorm:"type:text" json:"resume_name"`
	HiringType   string    `gorm:"type:text" json:"hiring_type"`
	Level        string    `gorm:"type:text" json:"level"`
	MatchPercent *int      `json:"match_percent"`
	Decision     Decision  `gorm:"type:text" json:"decision"`
	Details      string    `gorm:"type:text" json:"details"`
	UploadDate   string    `gorm:"type:text" json:"upload_date"`
	FileID       *string   `gorm:"type:text" json:"file_id"`
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}
