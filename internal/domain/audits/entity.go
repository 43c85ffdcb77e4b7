package audits

import (
	"encoding/json"
	"time"
)

// ID tipe untuk Audit
type AuditID string

// Status enum
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Grade letter derived from the overall score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// CategoryScores value object: the flattened 0-100 columns persisted on the row
type CategoryScores struct {
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"best_practices"`
	PWA           int `json:"pwa"`
	Security      int `json:"security"`
}

// Aggregate Root: Audit
type Audit struct {
	ID           AuditID         `json:"id"`
	TenantID     string          `json:"tenant_id"`
	TargetURL    string          `json:"target_url"`
	Status       Status          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Grade        Grade           `json:"grade,omitempty"`
	Overall      int             `json:"overall"`
	Scores       CategoryScores  `json:"scores"`
	Summary      json.RawMessage `json:"summary,omitempty"`
	ReportURL    string          `json:"report_url,omitempty"`
	HeartbeatAt  time.Time       `json:"heartbeat_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
