package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appai "github.com/bryanwahyu/report-vault/internal/application/ai"
	appauth "github.com/bryanwahyu/report-vault/internal/application/auth"
	appreports "github.com/bryanwahyu/report-vault/internal/application/reports"
	"github.com/bryanwahyu/report-vault/internal/domain/activity"
	domai "github.com/bryanwahyu/report-vault/internal/domain/ai"
	domauth "github.com/bryanwahyu/report-vault/internal/domain/auth"
	domain "github.com/bryanwahyu/report-vault/internal/domain/reports"
	"github.com/bryanwahyu/report-vault/internal/middleware"
)

type Router struct {
	reportsSvc *appreports.Service
	sessions   *appauth.Manager
	aiSvc      *appai.Service
	activity   activity.Repository
}

func NewRouter(reportsSvc *appreports.Service, sessions *appauth.Manager, aiSvc *appai.Service, auditRepo activity.Repository, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{reportsSvc: reportsSvc, sessions: sessions, aiSvc: aiSvc, activity: auditRepo}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/auth/login", r.wrap(r.handleLogin))
		rt.Post("/auth/logout", r.wrap(r.handleLogout))
		rt.Get("/auth/me", r.wrap(r.handleMe))

		rt.Post("/reports", r.wrap(r.handleSaveReport))
		rt.Get("/reports", r.wrap(r.handleListReports))
		rt.Get("/reports/{id}", r.wrap(r.handleGetReport))
		rt.Delete("/reports/{id}", r.wrap(r.handleDeleteReport))
		rt.Post("/reports/repair", r.wrap(r.handleRepair))
		rt.Post("/reports/{id}/summarize", r.wrap(r.handleSummarize))

		rt.Get("/activity", r.wrap(r.handleActivity))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			if errors.Is(err, domai.ErrNotConfigured) {
				http.Error(w, "ai summarization is not configured", http.StatusNotImplemented)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// requirePermission gates a handler; on denial it writes the user-visible
// message and reports handled=false so the operation is never attempted.
func (r *Router) requirePermission(w http.ResponseWriter, req *http.Request, name domauth.Permission) bool {
	token := middleware.GetTokenFromContext(req.Context())
	if err := r.sessions.RequirePermission(token, name); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return false
	}
	return true
}

// record writes an audit entry, best-effort
func (r *Router) record(req *http.Request, action, detail string) {
	if r.activity == nil {
		return
	}
	e := &activity.Entry{
		Username:  middleware.GetUsernameFromContext(req.Context()),
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := r.activity.Record(req.Context(), e); err != nil {
		log.Printf("httpserver: record activity: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil
	}

	token, ok := r.sessions.Login(req.Context(), body.Username, body.Password)
	if !ok {
		// one generic message regardless of cause
		middleware.IncrementLoginsFailed()
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return nil
	}

	user, _ := r.sessions.CurrentUser(token)
	return writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// POST /v1/auth/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	token := middleware.GetTokenFromContext(req.Context())
	r.sessions.Logout(req.Context(), token)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/auth/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	token := middleware.GetTokenFromContext(req.Context())
	user, ok := r.sessions.CurrentUser(token)
	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return nil
	}
	return writeJSON(w, http.StatusOK, user)
}

// POST /v1/reports
// Body carries the record; a missing id is generated from symbol + now.
func (r *Router) handleSaveReport(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAnalysis) {
		return nil
	}

	var body struct {
		ID            string         `json:"id"`
		Symbol        string         `json:"symbol"`
		Status        string         `json:"status"`
		Analysts      []string       `json:"analysts"`
		ResearchDepth int            `json:"research_depth"`
		Summary       string         `json:"summary"`
		Payload       map[string]any `json:"payload"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidateSymbol(body.Symbol); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var rep *domain.Report
	if body.ID == "" {
		rep = domain.NewReport(body.Symbol, time.Now())
	} else {
		if err := middleware.ValidateReportID(body.ID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		rep = &domain.Report{ID: domain.ReportID(body.ID), Symbol: body.Symbol}
	}
	rep.Status = domain.Status(body.Status)
	rep.Analysts = body.Analysts
	rep.ResearchDepth = body.ResearchDepth
	rep.Summary = body.Summary
	rep.Payload = body.Payload

	if !r.reportsSvc.Save(req.Context(), rep) {
		http.Error(w, "failed to save report", http.StatusInternalServerError)
		return nil
	}

	middleware.IncrementReportsSaved()
	r.record(req, "save", string(rep.ID))
	return writeJSON(w, http.StatusCreated, rep)
}

// GET /v1/reports?symbol=&analyst=&start_date=&end_date=&limit=
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAnalysis) {
		return nil
	}

	q := req.URL.Query()
	f := domain.Filter{
		Symbol:    middleware.SanitizeString(q.Get("symbol")),
		Analyst:   middleware.SanitizeString(q.Get("analyst")),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if err := middleware.ValidateDate(f.StartDate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidateDate(f.EndDate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list := r.reportsSvc.List(req.Context(), f, limit)
	if list == nil {
		list = []*domain.Report{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reports/{id}
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAnalysis) {
		return nil
	}

	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	rep, ok := r.reportsSvc.Get(req.Context(), domain.ReportID(id))
	if !ok {
		return domain.ErrNotFound
	}
	return writeJSON(w, http.StatusOK, rep)
}

// DELETE /v1/reports/{id}
func (r *Router) handleDeleteReport(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAdmin) {
		return nil
	}

	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	deleted := r.reportsSvc.Delete(req.Context(), domain.ReportID(id))
	if deleted {
		middleware.IncrementReportsDeleted()
		r.record(req, "delete", id)
	}
	return writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// POST /v1/reports/repair
func (r *Router) handleRepair(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAdmin) {
		return nil
	}

	fixed := r.reportsSvc.RepairInconsistent(req.Context())
	middleware.AddReportsRepaired(fixed)
	r.record(req, "repair", strconv.Itoa(fixed)+" fixed")
	return writeJSON(w, http.StatusOK, map[string]any{"fixed": fixed})
}

// POST /v1/reports/{id}/summarize
// Generates a summary from the payload sections and re-saves the record.
func (r *Router) handleSummarize(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAnalysis) {
		return nil
	}

	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	rep, ok := r.reportsSvc.Get(req.Context(), domain.ReportID(id))
	if !ok {
		return domain.ErrNotFound
	}

	summary, err := r.aiSvc.Summarize(req.Context(), rep.Symbol, rep.Payload)
	if err != nil {
		return err
	}

	rep.Summary = summary
	if !r.reportsSvc.Save(req.Context(), rep) {
		http.Error(w, "failed to save summarized report", http.StatusInternalServerError)
		return nil
	}
	r.record(req, "summarize", id)
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/activity?username=&limit=
func (r *Router) handleActivity(w http.ResponseWriter, req *http.Request) error {
	if !r.requirePermission(w, req, domauth.PermAdmin) {
		return nil
	}
	if r.activity == nil {
		http.Error(w, "activity log is not configured", http.StatusNotImplemented)
		return nil
	}

	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	limit = middleware.ValidateLimit(limit)
	entries, err := r.activity.Latest(req.Context(), middleware.SanitizeString(q.Get("username")), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*activity.Entry{}
	}
	return writeJSON(w, http.StatusOK, entries)
}
