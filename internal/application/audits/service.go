package audits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"

	"github.com/uptrade-media/audit-engine/internal/application"
	appai "github.com/uptrade-media/audit-engine/internal/application/ai"
	domai "github.com/uptrade-media/audit-engine/internal/domain/ai"
	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/domain/auditerrors"
)

// ErrMissingAuditID is returned before any job state is touched.
var ErrMissingAuditID = errors.New("audit_id is required")

// ErrPerformanceUnavailable is the job-fatal condition: neither strategy
// resolved any performance data.
var ErrPerformanceUnavailable = errors.New("PageSpeed analysis failed - site may be blocking automated requests")

// Notifier is told about completed audits. The default implementation only
// logs; skip_email suppresses the call entirely.
type Notifier interface {
	AuditCompleted(ctx context.Context, a *domain.Audit) error
}

// Service implements the audit pipeline use-cases.
// Safe for concurrent use; each run owns its own state.
type Service struct {
	Repo        domain.Repository
	Errors      auditerrors.Repository
	Insights    *appai.Service
	Performance domain.PerformanceAnalyzer
	Page        domain.PageAnalyzer
	Pwa         domain.PwaAnalyzer
	Reports     domain.ReportStore
	Notifier    Notifier
	Clock       application.Clock
}

//
// ==== USE CASES ====
//

// RunAuditCommand triggers one pipeline run over an existing pending job.
type RunAuditCommand struct {
	AuditID   string
	SkipEmail bool
	Industry  string
}

type RunAuditResult struct {
	AuditID string       `json:"audit_id"`
	Grade   domain.Grade `json:"grade"`
	Overall int          `json:"overall"`
}

// RunAudit executes the full pipeline: load job, mark running, fan out the
// three analyzers, aggregate, derive insights, narrate, persist. There is no
// retry logic anywhere: every external call either degrades in place or is
// job-fatal.
func (s *Service) RunAudit(ctx context.Context, tenant string, cmd RunAuditCommand) (res RunAuditResult, err error) {
	if cmd.AuditID == "" {
		return RunAuditResult{}, ErrMissingAuditID
	}

	job, err := s.Repo.Get(ctx, tenant, domain.AuditID(cmd.AuditID))
	if err != nil {
		// Unknown job: no state to transition.
		return RunAuditResult{}, err
	}

	now := s.Clock.Now()
	if err := s.Repo.MarkRunning(ctx, tenant, job.ID, now); err != nil {
		return RunAuditResult{}, err
	}

	// Everything after the running transition must resolve to complete or
	// failed, including panics from analyzer plumbing.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit pipeline panic: %v", r)
			s.fail(tenant, job, "pipeline", err)
			res = RunAuditResult{AuditID: string(job.ID)}
		}
	}()

	perf, page, pwa := s.runAnalyzers(ctx, job.TargetURL)
	s.heartbeat(ctx, tenant, job.ID)

	if !perf.HasData() {
		s.fail(tenant, job, "fetch", ErrPerformanceUnavailable)
		return RunAuditResult{AuditID: string(job.ID)}, ErrPerformanceUnavailable
	}

	metrics := domain.Summarize(perf, page, pwa.Score)
	s.heartbeat(ctx, tenant, job.ID)

	report := s.deriveInsights(job.TargetURL, &metrics, perf, page, pwa, cmd.Industry)

	s.narrate(ctx, tenant, job, report, page)
	s.heartbeat(ctx, tenant, job.ID)

	if err := s.persistReport(ctx, tenant, job, report); err != nil {
		s.fail(tenant, job, "persist", err)
		return RunAuditResult{AuditID: string(job.ID)}, err
	}

	if s.Notifier != nil && !cmd.SkipEmail {
		if nerr := s.Notifier.AuditCompleted(ctx, job); nerr != nil {
			log.Warn().Err(nerr).Str("audit_id", string(job.ID)).Msg("completion notification failed")
		}
	}

	return RunAuditResult{
		AuditID: string(job.ID),
		Grade:   report.Metrics.Grade,
		Overall: report.Metrics.Overall,
	}, nil
}

// runAnalyzers fans out the three fetchers concurrently. Each one degrades
// internally; an error here means the degraded facts stand in, so the
// barrier below always sees three resolved bundles.
func (s *Service) runAnalyzers(ctx context.Context, targetURL string) (*domain.PerformanceFacts, *domain.PageFacts, *domain.PwaFacts) {
	var (
		perf *domain.PerformanceFacts
		page *domain.PageFacts
		pwa  *domain.PwaFacts
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		f, err := s.Performance.Analyze(ctx, targetURL)
		if err != nil || f == nil {
			logAnalyzerError("performance", targetURL, err)
			f = &domain.PerformanceFacts{}
		}
		perf = f
	}()
	go func() {
		defer wg.Done()
		f, err := s.Page.Analyze(ctx, targetURL)
		if err != nil || f == nil {
			logAnalyzerError("page", targetURL, err)
			f = domain.DegradedPageFacts()
		}
		page = f
	}()
	go func() {
		defer wg.Done()
		f, err := s.Pwa.Analyze(ctx, targetURL)
		if err != nil || f == nil {
			logAnalyzerError("pwa", targetURL, err)
			f = domain.DegradedPwaFacts()
		}
		pwa = f
	}()
	wg.Wait()

	return perf, page, pwa
}

// deriveInsights runs the pure generators over the aggregated metrics. The
// three extractors over the raw performance facts run concurrently; the
// remaining generators consume their outputs.
func (s *Service) deriveInsights(targetURL string, metrics *domain.AuditMetrics, perf *domain.PerformanceFacts, page *domain.PageFacts, pwa *domain.PwaFacts, industry string) *domain.Report {
	var (
		resources     domain.ResourceBreakdown
		opportunities []domain.Opportunity
		a11y          []domain.AccessibilityIssue
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); resources = domain.ExtractResourceBreakdown(perf, targetURL) }()
	go func() { defer wg.Done(); opportunities = domain.ExtractOpportunities(perf) }()
	go func() { defer wg.Done(); a11y = domain.ExtractAccessibilityIssues(perf) }()
	wg.Wait()

	return &domain.Report{
		TargetURL:           targetURL,
		Metrics:             *metrics,
		Resources:           resources,
		Opportunities:       opportunities,
		AccessibilityIssues: a11y,
		BusinessImpact:      domain.EstimateBusinessImpact(metrics),
		Benchmark:           domain.CompareToIndustry(metrics, industry),
		Snippets:            domain.GenerateCodeSnippets(metrics, page, resources),
		PwaIssues:           domain.GeneratePwaIssues(pwa),
	}
}

// narrate asks the AI service for an executive narrative and, when one comes
// back, lets it override the rule-based text. Every failure degrades.
func (s *Service) narrate(ctx context.Context, tenant string, job *domain.Audit, report *domain.Report, page *domain.PageFacts) {
	if s.Insights == nil {
		return
	}

	narrative, err := s.Insights.GenerateAndStore(ctx, tenant, string(job.ID), domai.InsightInput{
		URL:                 job.TargetURL,
		Metrics:             &report.Metrics,
		Page:                page,
		Resources:           report.Resources,
		Opportunities:       report.Opportunities,
		AccessibilityIssues: report.AccessibilityIssues,
		Impact:              report.BusinessImpact,
	})
	if err != nil {
		if !errors.Is(err, domai.ErrNotConfigured) {
			log.Warn().Err(err).Str("audit_id", string(job.ID)).Msg("narrative generation degraded, keeping rule-based text")
		}
		return
	}

	report.Narrative = narrative
	report.Metrics.InsightsSummary = narrative.Summary
	report.Metrics.PriorityActions = narrative.Actions
}

// persistReport uploads the report artifact (best-effort) and writes the
// terminal complete state.
func (s *Service) persistReport(ctx context.Context, tenant string, job *domain.Audit, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if s.Reports != nil {
		key := fmt.Sprintf("%s/%s/report.json", tenant, job.ID)
		url, uerr := s.Reports.UploadReport(ctx, key, payload)
		if uerr != nil {
			log.Warn().Err(uerr).Str("audit_id", string(job.ID)).Msg("report artifact upload failed, keeping inline summary only")
		} else {
			job.ReportURL = url
		}
	}

	completed := s.Clock.Now()
	job.Status = domain.StatusComplete
	job.ErrorMessage = ""
	job.Grade = report.Metrics.Grade
	job.Overall = report.Metrics.Overall
	job.Scores = domain.CategoryScores{
		Performance:   report.Metrics.Performance,
		SEO:           report.Metrics.SEO,
		Accessibility: report.Metrics.Accessibility,
		BestPractices: report.Metrics.BestPractices,
		PWA:           report.Metrics.PWA,
		Security:      report.Metrics.Security,
	}
	job.Summary = payload
	job.HeartbeatAt = completed
	job.CompletedAt = &completed

	return s.Repo.Save(ctx, job)
}

// fail writes the terminal failed state and records the error row, both
// best-effort: the original error is what surfaces to the caller.
func (s *Service) fail(tenant string, job *domain.Audit, phase string, cause error) {
	ctx := context.Background()
	now := s.Clock.Now()
	if err := s.Repo.MarkFailed(ctx, tenant, job.ID, cause.Error(), now); err != nil {
		log.Error().Err(err).Str("audit_id", string(job.ID)).Msg("failed to persist failed status")
	}
	if s.Errors != nil {
		_ = s.Errors.Save(ctx, &auditerrors.AuditError{
			TenantID:  tenant,
			AuditID:   string(job.ID),
			Phase:     phase,
			Message:   cause.Error(),
			CreatedAt: now,
		})
	}
	log.Error().Err(cause).Str("tenant", tenant).Str("audit_id", string(job.ID)).Str("phase", phase).Msg("audit failed")
}

func (s *Service) heartbeat(ctx context.Context, tenant string, id domain.AuditID) {
	_ = s.Repo.Heartbeat(ctx, tenant, id, s.Clock.Now())
}

func logAnalyzerError(name, targetURL string, err error) {
	log.Warn().Err(err).Str("analyzer", name).Str("url", targetURL).Msg("analyzer degraded")
}

// Latest returns the N most recent audits.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Audit, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get returns one audit by id.
func (s *Service) Get(ctx context.Context, tenant string, id domain.AuditID) (*domain.Audit, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Summary aggregates audit outcomes over the last N days.
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	total, complete, failed, avgOverall, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_audits": total,
		"complete":     complete,
		"failed":       failed,
		"avg_overall":  avgOverall,
	}, nil
}

// Paginate lists audits with optional status/target filters.
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize, filters)
}

// StaleTimeout pairs with the reaper: jobs whose heartbeat is older than the
// timeout while still running are marked failed by FailStale.
const StaleFailureMessage = "audit timed out - no heartbeat from the processing run"

// FailStale delegates to the repository; exposed so the reaper does not need
// its own repository wiring.
func (s *Service) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.Clock.Now().Add(-olderThan)
	return s.Repo.FailStale(ctx, cutoff, StaleFailureMessage)
}
