package audits

import (
	"context"
	"time"
)

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, a *Audit) error
	Get(ctx context.Context, tenant string, id AuditID) (*Audit, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Audit, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (total, complete, failed int, avgOverall float64, err error)
	Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (PaginatedResult, error)

	MarkRunning(ctx context.Context, tenant string, id AuditID, at time.Time) error
	MarkFailed(ctx context.Context, tenant string, id AuditID, message string, at time.Time) error
	Heartbeat(ctx context.Context, tenant string, id AuditID, at time.Time) error

	// FailStale marks every job still running with a heartbeat older than
	// cutoff as failed. Used by the reaper.
	FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error)
}

// PerformanceAnalyzer port. Implementations degrade internally: a failed
// provider call returns facts with no strategy data, not an error.
type PerformanceAnalyzer interface {
	Analyze(ctx context.Context, targetURL string) (*PerformanceFacts, error)
}

// PageAnalyzer port. A failed analysis returns DegradedPageFacts.
type PageAnalyzer interface {
	Analyze(ctx context.Context, targetURL string) (*PageFacts, error)
}

// PwaAnalyzer port. A failed analysis returns DegradedPwaFacts.
type PwaAnalyzer interface {
	Analyze(ctx context.Context, targetURL string) (*PwaFacts, error)
}

// ReportStore port (object storage for the full report payload)
type ReportStore interface {
	UploadReport(ctx context.Context, key string, report []byte) (string, error)
}
