package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/uptrade-media/audit-engine/internal/domain/ai"
	"github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/domain/insights"
)

// Service wraps the narrative client and persists its results.
type Service struct {
	client ai.Client
	repo   insights.Repository
}

func NewService(client ai.Client, repo insights.Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Generate produces a narrative for the given input. A nil client behaves
// like a missing credential.
func (s *Service) Generate(ctx context.Context, in ai.InsightInput) (*audits.Narrative, error) {
	if s == nil || s.client == nil {
		return nil, ai.ErrNotConfigured
	}
	return s.client.GenerateInsights(ctx, in)
}

// GenerateAndStore produces a narrative and records it for history. Storage
// failure does not discard a successful narrative.
func (s *Service) GenerateAndStore(ctx context.Context, tenant, auditID string, in ai.InsightInput) (*audits.Narrative, error) {
	n, err := s.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		raw, merr := json.Marshal(n)
		if merr == nil {
			_ = s.repo.Save(ctx, &insights.Insight{
				ID:        insights.InsightID(uuid.New().String()),
				TenantID:  tenant,
				AuditID:   auditID,
				TargetURL: in.URL,
				Result:    string(raw),
				CreatedAt: time.Now(),
			})
		}
	}
	return n, nil
}

// List returns stored narratives for the tenant, newest first.
func (s *Service) List(ctx context.Context, tenant string, page, pageSize int) ([]*insights.Insight, error) {
	if s == nil || s.repo == nil {
		return []*insights.Insight{}, nil
	}
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}
