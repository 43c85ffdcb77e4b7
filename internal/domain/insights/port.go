package insights

import "context"

// Repository port for persisting and querying stored narratives
type Repository interface {
	Save(ctx context.Context, i *Insight) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Insight, error)
	LatestByAudit(ctx context.Context, tenant string, auditID string) (*Insight, error)
}
