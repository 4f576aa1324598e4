package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/planforge/planforge/internal/adapters/render"
	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/core/domain"
	"github.com/planforge/planforge/internal/core/ports"
	"github.com/planforge/planforge/internal/observability/metrics"
)

const serviceName = "api"

// startDateLayout is the wire format for dates in upload forms and
// reschedule bodies.
const startDateLayout = "2006-01-02"

type Router struct {
	cfg       config.Config
	ingestUC  ports.DocumentIngestor
	previewUC ports.PlanPreviewer
	planUC    ports.PlanService
	docsUC    ports.DocumentReader
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestUC ports.DocumentIngestor,
	previewUC ports.PlanPreviewer,
	planUC ports.PlanService,
	docsUC ports.DocumentReader,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		ingestUC:  ingestUC,
		previewUC: previewUC,
		planUC:    planUC,
		docsUC:    docsUC,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.serveOpenAPI)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/plan", rt.getPlan)
	mux.HandleFunc("GET /v1/documents/{id}/plan/table", rt.getPlanTable)
	mux.HandleFunc("GET /v1/documents/{id}/plan/timeline", rt.getPlanTimeline)
	mux.HandleFunc("GET /v1/documents/{id}/plan.csv", rt.getPlanCSV)
	mux.HandleFunc("POST /v1/documents/{id}/plan/reschedule", rt.reschedulePlan)
	mux.HandleFunc("POST /v1/plans/preview", rt.previewPlan)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent,
		time.Duration(rt.cfg.APIQueueWaitMillis)*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	req, cleanup, ok := rt.parseUploadForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	doc, err := rt.ingestUC.Upload(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.docsUC.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := rt.fetchPlan(w, r, "json")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (rt *Router) getPlanTable(w http.ResponseWriter, r *http.Request) {
	plan, ok := rt.fetchPlan(w, r, "table")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, render.BuildTable(plan))
}

func (rt *Router) getPlanTimeline(w http.ResponseWriter, r *http.Request) {
	plan, ok := rt.fetchPlan(w, r, "timeline")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, render.BuildTimeline(plan))
}

func (rt *Router) getPlanCSV(w http.ResponseWriter, r *http.Request) {
	plan, ok := rt.fetchPlan(w, r, "csv")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.csv"`)
	if err := render.WriteCSV(w, plan); err != nil {
		// Headers are gone; all we can do is log through the access log status.
		return
	}
}

func (rt *Router) fetchPlan(w http.ResponseWriter, r *http.Request, view string) (*domain.Plan, bool) {
	plan, err := rt.planUC.GetByDocumentID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	rt.metrics.RecordPlanView(serviceName, view, len(plan.Phases), plan.TaskCount())
	return plan, true
}

func (rt *Router) reschedulePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	newStart, err := time.Parse(startDateLayout, req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
		return
	}

	plan, err := rt.planUC.Reschedule(r.Context(), r.PathValue("id"), newStart)
	rt.metrics.RecordReschedule(serviceName, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (rt *Router) previewPlan(w http.ResponseWriter, r *http.Request) {
	req, cleanup, ok := rt.parseUploadForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	start := time.Now()
	plan, err := rt.previewUC.Preview(r.Context(), req)
	rt.metrics.RecordPreview(serviceName, time.Since(start), err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// parseUploadForm reads the shared multipart shape of upload and preview:
// a required file part plus optional project_name and start_date fields.
func (rt *Router) parseUploadForm(w http.ResponseWriter, r *http.Request) (ports.UploadRequest, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		status := http.StatusBadRequest
		msg := "multipart field 'file' is required"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			msg = "upload exceeds size limit"
		}
		writeJSON(w, status, map[string]string{"error": msg})
		return ports.UploadRequest{}, nil, false
	}

	req := ports.UploadRequest{
		Filename:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		ProjectName: strings.TrimSpace(r.FormValue("project_name")),
		Body:        file,
	}

	if raw := strings.TrimSpace(r.FormValue("start_date")); raw != "" {
		start, err := time.Parse(startDateLayout, raw)
		if err != nil {
			file.Close()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return ports.UploadRequest{}, nil, false
		}
		req.StartDate = start
	}

	return req, func() { file.Close() }, true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
