package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/uptrade-media/audit-engine/internal/domain/insights"
)

type InsightRepository struct{ db *sql.DB }

func NewInsightRepository(db *sql.DB) *InsightRepository { return &InsightRepository{db: db} }

// Save inserts a stored narrative record
func (r *InsightRepository) Save(ctx context.Context, i *domain.Insight) error {
	const q = `
INSERT INTO audit_insights
  (id, tenant_id, audit_id, target_url, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  tenant_id = EXCLUDED.tenant_id,
  audit_id = EXCLUDED.audit_id,
  target_url = EXCLUDED.target_url,
  result_json = EXCLUDED.result_json;`

	tenant := stringOrDash(i.TenantID)
	result := i.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	createdAt := i.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, i.ID, tenant, i.AuditID, i.TargetURL, result, createdAt)
	return err
}

// Paginate returns a page of narrative records ordered by created_at desc
func (r *InsightRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Insight, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, audit_id, target_url, result_json, created_at
FROM audit_insights
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Insight
	for rows.Next() {
		var i domain.Insight
		var created time.Time
		if err := rows.Scan(&i.ID, &i.TenantID, &i.AuditID, &i.TargetURL, &i.Result, &created); err != nil {
			return nil, err
		}
		i.CreatedAt = created
		out = append(out, &i)
	}
	return out, rows.Err()
}

// LatestByAudit returns the newest narrative for one audit run
func (r *InsightRepository) LatestByAudit(ctx context.Context, tenant string, auditID string) (*domain.Insight, error) {
	const q = `
SELECT id, tenant_id, audit_id, target_url, result_json, created_at
FROM audit_insights
WHERE tenant_id=$1 AND audit_id=$2
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	var i domain.Insight
	var created time.Time
	if err := r.db.QueryRowContext(ctx, q, tenant, auditID).Scan(&i.ID, &i.TenantID, &i.AuditID, &i.TargetURL, &i.Result, &created); err != nil {
		return nil, err
	}
	i.CreatedAt = created
	return &i, nil
}
