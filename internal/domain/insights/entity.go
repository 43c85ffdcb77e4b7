package insights

import "time"

// InsightID identifier type
type InsightID string

// Insight represents a stored AI narrative result, kept per run so the
// history survives re-audits.
type Insight struct {
	ID        InsightID `json:"id"`
	TenantID  string    `json:"tenant_id"`
	AuditID   string    `json:"audit_id"`
	TargetURL string    `json:"target_url,omitempty"`
	Result    string    `json:"result"` // JSON string from AI
	CreatedAt time.Time `json:"created_at"`
}
