package auditerrors

import (
	"context"
)

// Repository defines persistence for audit errors
type Repository interface {
	Save(ctx context.Context, e *AuditError) error
	ListByAudit(ctx context.Context, tenant string, auditID string, limit int) ([]*AuditError, error)
}
