package notify

import (
	"context"

	"github.com/phuslu/log"

	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
)

// LogNotifier records completed audits in the application log. Stands in for
// a real mail sender; the orchestrator already honors skip_email before
// calling it.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) AuditCompleted(ctx context.Context, a *domain.Audit) error {
	log.Info().
		Str("tenant", a.TenantID).
		Str("audit_id", string(a.ID)).
		Str("target_url", a.TargetURL).
		Str("grade", string(a.Grade)).
		Int("overall", a.Overall).
		Msg("audit completed notification")
	return nil
}
