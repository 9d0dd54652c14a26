package models

type AnalyzeRequest struct {
	JobDescription string `form:"job_description" validate:"required"`
	HiringType     string `form:"hiring_type" validate:"required,oneof=1 2 3 4"`
	Level          string `form:"level" validate:"required,oneof=1 2"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FileResult is one element of the analyze response, either a verdict or an error.
type FileResult struct {
	Filename     string      `json:"filename"`
	ResultText   string      `json:"result_text,omitempty"`
	MatchPercent *int        `json:"match_percent,omitempty"`
	Decision     Decision    `json:"decision,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
	Error        string      `json:"error,omitempty"`
}

type AnalyzeResponse struct {
	Results      []FileResult `json:"results"`
	HistorySaved bool         `json:"history_saved"`
	Warning      string       `json:"warning,omitempty"`
}

type ViewResumeResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Content     string `json:"content"`
}

// RecruiterTotals is one group-by-recruiter aggregation row.
type RecruiterTotals struct {
	RecruiterName string `json:"recruiter_name"`
	Uploads       int64  `json:"uploads"`
	TotalResumes  int64  `json:"total_resumes"`
	Shortlisted   int64  `json:"shortlisted"`
	Rejected      int64  `json:"rejected"`
}

type SummaryHistoryItem struct {
	HistoryEntry
	CountsPerDay int `json:"counts_per_day"`
}

type RecruiterSummary struct {
	RecruiterName string               `json:"recruiter_name"`
	Uploads       int64                `json:"uploads"`
	Resumes       int64                `json:"resumes"`
	Shortlisted   int64                `json:"shortlisted"`
	Rejected      int64                `json:"rejected"`
	History       []SummaryHistoryItem `json:"history"`
}

type ReportRow struct {
	RecruiterName string `json:"recruiter_name"`
	TotalResumes  int64  `json:"total_resumes"`
	Shortlisted   int64  `json:"shortlisted"`
	Rejected      int64  `json:"rejected"`
}

type ReportResponse struct {
	Date     string      `json:"date"`
	DateType string      `json:"date_type,omitempty"`
	Reports  []ReportRow `json:"reports"`
}
