package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appai "github.com/uptrade-media/audit-engine/internal/application/ai"
	appaudits "github.com/uptrade-media/audit-engine/internal/application/audits"
	domai "github.com/uptrade-media/audit-engine/internal/domain/ai"
	domain "github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/domain/auditerrors"
	"github.com/uptrade-media/audit-engine/internal/middleware"
)

type Router struct {
	auditsSvc *appaudits.Service
	aiSvc     *appai.Service
	errorsRepo auditerrors.Repository
}

func NewRouter(auditsSvc *appaudits.Service, aiSvc *appai.Service, errorsRepo auditerrors.Repository, health http.HandlerFunc) http.Handler {
	r := &Router{auditsSvc: auditsSvc, aiSvc: aiSvc, errorsRepo: errorsRepo}
	mux := chi.NewRouter()

	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/audits", r.wrap(r.handleRunAudit))
		rt.Get("/audits", r.wrap(r.handleList))
		rt.Get("/audits/latest", r.wrap(r.handleLatest))
		rt.Get("/audits/{id}", r.wrap(r.handleGet))
		rt.Get("/audits/{id}/errors", r.wrap(r.handleErrors))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/insights", r.wrap(r.handleInsightList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			if errors.Is(err, appaudits.ErrMissingAuditID) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/audits
// Body: {"audit_id": "<id>", "skip_email": false}
// Runs the whole pipeline synchronously; the caller gets the final grade.
func (r *Router) handleRunAudit(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		AuditID   string `json:"audit_id"`
		SkipEmail bool   `json:"skip_email"`
		Industry  string `json:"industry"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	middleware.IncrementAudits()
	middleware.IncrementAuditsRunning()
	defer middleware.DecrementAuditsRunning()

	result, err := r.auditsSvc.RunAudit(req.Context(), tenant, appaudits.RunAuditCommand{
		AuditID:   body.AuditID,
		SkipEmail: body.SkipEmail,
		Industry:  middleware.SanitizeString(body.Industry),
	})
	if err != nil {
		middleware.IncrementAuditsFailed()
		return err
	}

	return writeJSON(w, map[string]any{
		"success":  true,
		"audit_id": result.AuditID,
		"grade":    result.Grade,
		"overall":  result.Overall,
	})
}

// GET /v1/{tenant}/audits?page=&page_size=&status=&target=&grade=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	filters := map[string]interface{}{}
	for _, key := range []string{"status", "target", "grade"} {
		if v := req.URL.Query().Get(key); v != "" {
			filters[key] = middleware.SanitizeString(v)
		}
	}

	result, err := r.auditsSvc.Paginate(req.Context(), tenant, page, middleware.ValidateLimit(size), filters)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /v1/{tenant}/audits/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.auditsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/audits/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	audit, err := r.auditsSvc.Get(req.Context(), tenant, domain.AuditID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, audit)
}

// GET /v1/{tenant}/audits/{id}/errors?limit=20
func (r *Router) handleErrors(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.errorsRepo.ListByAudit(req.Context(), tenant, id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/summary?days=30
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.auditsSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

// GET /v1/{tenant}/insights?page=&page_size=
func (r *Router) handleInsightList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.aiSvc.List(req.Context(), tenant, page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}
