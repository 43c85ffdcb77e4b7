package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appai "github.com/uptrade-media/audit-engine/internal/application/ai"
	appaudits "github.com/uptrade-media/audit-engine/internal/application/audits"
	"github.com/uptrade-media/audit-engine/internal/application"
	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/domain/auditerrors"
)

type stubRepo struct {
	jobs map[domain.AuditID]*domain.Audit
}

func (r *stubRepo) Save(ctx context.Context, a *domain.Audit) error { return nil }

func (r *stubRepo) Get(ctx context.Context, tenant string, id domain.AuditID) (*domain.Audit, error) {
	if j, ok := r.jobs[id]; ok {
		return j, nil
	}
	return nil, sql.ErrNoRows
}

func (r *stubRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Audit, error) {
	return []*domain.Audit{}, nil
}

func (r *stubRepo) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, float64, error) {
	return 4, 3, 1, 81.2, nil
}

func (r *stubRepo) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{Data: []*domain.Audit{}, Page: page, PageSize: pageSize}, nil
}

func (r *stubRepo) MarkRunning(ctx context.Context, tenant string, id domain.AuditID, at time.Time) error {
	return nil
}

func (r *stubRepo) MarkFailed(ctx context.Context, tenant string, id domain.AuditID, message string, at time.Time) error {
	return nil
}

func (r *stubRepo) Heartbeat(ctx context.Context, tenant string, id domain.AuditID, at time.Time) error {
	return nil
}

func (r *stubRepo) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	return 0, nil
}

type stubErrors struct{}

func (stubErrors) Save(ctx context.Context, e *auditerrors.AuditError) error { return nil }

func (stubErrors) ListByAudit(ctx context.Context, tenant, auditID string, limit int) ([]*auditerrors.AuditError, error) {
	return []*auditerrors.AuditError{}, nil
}

type stubPerf struct{}

func (stubPerf) Analyze(ctx context.Context, targetURL string) (*domain.PerformanceFacts, error) {
	score := 70.0
	return &domain.PerformanceFacts{Mobile: &domain.StrategyScores{Performance: &score}}, nil
}

type stubPage struct{}

func (stubPage) Analyze(ctx context.Context, targetURL string) (*domain.PageFacts, error) {
	return &domain.PageFacts{TitleLength: 40, MetaDescriptionLength: 130, HasH1: true, H1Count: 1, SecurityScore: 70}, nil
}

type stubPwa struct{}

func (stubPwa) Analyze(ctx context.Context, targetURL string) (*domain.PwaFacts, error) {
	return &domain.PwaFacts{Score: 25}, nil
}

func newTestHandler(repo *stubRepo) http.Handler {
	svc := &appaudits.Service{
		Repo:        repo,
		Errors:      stubErrors{},
		Performance: stubPerf{},
		Page:        stubPage{},
		Pwa:         stubPwa{},
		Clock:       application.SystemClock{},
	}
	aiSvc := appai.NewService(nil, nil)
	health := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	return NewRouter(svc, aiSvc, stubErrors{}, health)
}

func TestGetAuditNotFound(t *testing.T) {
	h := newTestHandler(&stubRepo{jobs: map[domain.AuditID]*domain.Audit{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/audits/unknown", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not found", body["error"])
}

func TestRunAuditWithoutIDReturns400(t *testing.T) {
	h := newTestHandler(&stubRepo{jobs: map[domain.AuditID]*domain.Audit{}})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/audits", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "audit_id is required")
}

func TestRunAuditSucceeds(t *testing.T) {
	job := &domain.Audit{
		ID:        "a1",
		TenantID:  "acme",
		TargetURL: "https://example.com/",
		Status:    domain.StatusPending,
	}
	h := newTestHandler(&stubRepo{jobs: map[domain.AuditID]*domain.Audit{"a1": job}})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/audits", strings.NewReader(`{"audit_id":"a1","skip_email":true}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool   `json:"success"`
		AuditID string `json:"audit_id"`
		Grade   string `json:"grade"`
		Overall int    `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "a1", body.AuditID)
	assert.NotEmpty(t, body.Grade)
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestHandler(&stubRepo{jobs: map[domain.AuditID]*domain.Audit{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/summary?days=7", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["total_audits"])
	assert.EqualValues(t, 81.2, body["avg_overall"])
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&stubRepo{jobs: map[domain.AuditID]*domain.Audit{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
