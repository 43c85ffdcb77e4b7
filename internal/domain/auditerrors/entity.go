package auditerrors

import "time"

// AuditError represents a persisted audit failure entry
type AuditError struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	AuditID     string    `json:"audit_id"`
	Phase       string    `json:"phase,omitempty"` // fetch | aggregate | narrative | persist | other
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
