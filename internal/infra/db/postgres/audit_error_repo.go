package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/uptrade-media/audit-engine/internal/domain/auditerrors"
)

type AuditErrorRepository struct{ db *sql.DB }

func NewAuditErrorRepository(db *sql.DB) *AuditErrorRepository {
	return &AuditErrorRepository{db: db}
}

func (r *AuditErrorRepository) Save(ctx context.Context, e *domain.AuditError) error {
	const q = `
INSERT INTO site_audit_errors
  (tenant_id, audit_id, phase, message, details_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`

	tenant := stringOrDash(e.TenantID)
	audit := stringOrDash(e.AuditID)
	phase := stringOrDash(e.Phase)
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	details := e.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, audit, phase, msg, details, created)
	return err
}

func (r *AuditErrorRepository) ListByAudit(ctx context.Context, tenant string, auditID string, limit int) ([]*domain.AuditError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, audit_id, phase, message, details_json, created_at
FROM site_audit_errors
WHERE tenant_id = $1 AND audit_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, auditID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditError
	for rows.Next() {
		var e domain.AuditError
		var created time.Time
		if err := rows.Scan(&e.ID, &e.TenantID, &e.AuditID, &e.Phase, &e.Message, &e.DetailsJSON, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = created
		out = append(out, &e)
	}
	return out, rows.Err()
}
