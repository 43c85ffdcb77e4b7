package ai

import (
	"context"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
)

// InsightInput bundles everything the narrative prompt embeds.
type InsightInput struct {
	URL                 string
	Metrics             *audits.AuditMetrics
	Page                *audits.PageFacts
	Resources           audits.ResourceBreakdown
	Opportunities       []audits.Opportunity
	AccessibilityIssues []audits.AccessibilityIssue
	Impact              audits.BusinessImpact
}

// Client generates an executive narrative from aggregated audit facts.
// Implementations return ErrNotConfigured when no credential is available;
// the caller treats every error as narrative degradation, never as job
// failure.
type Client interface {
	GenerateInsights(ctx context.Context, in InsightInput) (*audits.Narrative, error)
}
