package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
)

type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

const auditColumns = `id, tenant_id, target_url, status, error_message, grade, overall,
       performance, seo, accessibility, best_practices, pwa, security,
       summary_json, report_url, heartbeat_at, created_at, completed_at`

// Save insert/update Audit record
func (r *AuditRepository) Save(ctx context.Context, a *domain.Audit) error {
	const q = `
INSERT INTO site_audits
(id, tenant_id, target_url, status, error_message, grade, overall,
 performance, seo, accessibility, best_practices, pwa, security,
 summary_json, report_url, heartbeat_at, created_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,
        $8,$9,$10,$11,$12,$13,
        $14,$15,$16,$17,$18)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 error_message = EXCLUDED.error_message,
 grade = EXCLUDED.grade,
 overall = EXCLUDED.overall,
 performance = EXCLUDED.performance,
 seo = EXCLUDED.seo,
 accessibility = EXCLUDED.accessibility,
 best_practices = EXCLUDED.best_practices,
 pwa = EXCLUDED.pwa,
 security = EXCLUDED.security,
 summary_json = EXCLUDED.summary_json,
 report_url = EXCLUDED.report_url,
 heartbeat_at = EXCLUDED.heartbeat_at,
 completed_at = EXCLUDED.completed_at;`

	tenant := stringOrDash(a.TenantID)
	status := stringOrDash(string(a.Status))
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	heartbeat := a.HeartbeatAt
	if heartbeat.IsZero() {
		heartbeat = created
	}

	summary := []byte("{}")
	if len(a.Summary) > 0 {
		summary = a.Summary
	}

	var completed sql.NullTime
	if a.CompletedAt != nil {
		completed = sql.NullTime{Time: *a.CompletedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, tenant, a.TargetURL, status, a.ErrorMessage, string(a.Grade), a.Overall,
		a.Scores.Performance, a.Scores.SEO, a.Scores.Accessibility,
		a.Scores.BestPractices, a.Scores.PWA, a.Scores.Security,
		summary, a.ReportURL, heartbeat, created, completed,
	)
	return err
}

// Get by ID + Tenant
func (r *AuditRepository) Get(ctx context.Context, tenant string, id domain.AuditID) (*domain.Audit, error) {
	q := `SELECT ` + auditColumns + `
FROM site_audits
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	return scanAudit(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest audits per tenant
func (r *AuditRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Audit, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + auditColumns + `
FROM site_audits
WHERE tenant_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Summary aggregates audit outcomes since N days
func (r *AuditRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, float64, error) {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_audits,
       COALESCE(SUM(CASE WHEN status='complete' THEN 1 ELSE 0 END),0) AS complete,
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0)   AS failed,
       COALESCE(AVG(CASE WHEN status='complete' THEN overall END),0)  AS avg_overall
FROM site_audits
WHERE tenant_id=$1 AND created_at >= $2;`
	var total, complete, failed int
	var avg float64
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&total, &complete, &failed, &avg); err != nil {
		return 0, 0, 0, 0, err
	}
	return total, complete, failed, avg, nil
}

// Paginate with offset + limit (classic pagination)
func (r *AuditRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + auditColumns + `
FROM site_audits
WHERE tenant_id=$1`
	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	query += fmt.Sprintf("\nORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying audits: %w", err)
	}
	defer rows.Close()

	var items []*domain.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		items = append(items, a)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx, tenant, filters)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Count returns the total number of records matching the given filters
func (r *AuditRepository) Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM site_audits WHERE tenant_id = $1"
	args := []interface{}{tenant}
	query, args = applyFilters(query, args, filters)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRunning flips a pending job into the running state
func (r *AuditRepository) MarkRunning(ctx context.Context, tenant string, id domain.AuditID, at time.Time) error {
	const q = `
UPDATE site_audits
SET status = 'running', error_message = '', heartbeat_at = $1
WHERE tenant_id = $2 AND id = $3;`
	_, err := r.db.ExecContext(ctx, q, at, tenant, id)
	return err
}

// MarkFailed writes the terminal failed state with its message
func (r *AuditRepository) MarkFailed(ctx context.Context, tenant string, id domain.AuditID, message string, at time.Time) error {
	const q = `
UPDATE site_audits
SET status = 'failed', error_message = $1, heartbeat_at = $2, completed_at = $2
WHERE tenant_id = $3 AND id = $4;`
	_, err := r.db.ExecContext(ctx, q, message, at, tenant, id)
	return err
}

// Heartbeat refreshes heartbeat_at for a running job only
func (r *AuditRepository) Heartbeat(ctx context.Context, tenant string, id domain.AuditID, at time.Time) error {
	const q = `
UPDATE site_audits
SET heartbeat_at = $1
WHERE tenant_id = $2 AND id = $3 AND status = 'running';`
	_, err := r.db.ExecContext(ctx, q, at, tenant, id)
	return err
}

// FailStale marks running jobs with a heartbeat older than cutoff as failed
func (r *AuditRepository) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	const q = `
UPDATE site_audits
SET status = 'failed', error_message = $1, completed_at = heartbeat_at
WHERE status = 'running' AND heartbeat_at < $2;`
	res, err := r.db.ExecContext(ctx, q, message, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func applyFilters(query string, args []interface{}, filters map[string]interface{}) (string, []interface{}) {
	if filters == nil {
		return query, args
	}
	for key, value := range filters {
		switch key {
		case "status":
			query += fmt.Sprintf(" AND status = $%d", len(args)+1)
			args = append(args, value)
		case "target":
			searchTerm, _ := value.(string)
			query += fmt.Sprintf(" AND target_url LIKE $%d", len(args)+1)
			args = append(args, "%"+escapeLikePattern(searchTerm)+"%")
		case "grade":
			query += fmt.Sprintf(" AND grade = $%d", len(args)+1)
			args = append(args, value)
		}
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*domain.Audit, error) {
	var a domain.Audit
	var grade string
	var summary []byte
	var completed sql.NullTime
	if err := row.Scan(
		&a.ID, &a.TenantID, &a.TargetURL, &a.Status, &a.ErrorMessage, &grade, &a.Overall,
		&a.Scores.Performance, &a.Scores.SEO, &a.Scores.Accessibility,
		&a.Scores.BestPractices, &a.Scores.PWA, &a.Scores.Security,
		&summary, &a.ReportURL, &a.HeartbeatAt, &a.CreatedAt, &completed,
	); err != nil {
		return nil, err
	}
	a.Grade = domain.Grade(grade)
	if len(summary) > 0 {
		a.Summary = summary
	}
	if completed.Valid {
		t := completed.Time
		a.CompletedAt = &t
	}
	return &a, nil
}
