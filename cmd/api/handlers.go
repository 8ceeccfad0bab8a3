package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/pkg/events"
	"github.com/merchguard/merchguard/pkg/fn"
	"github.com/merchguard/merchguard/pkg/metrics"
	"github.com/merchguard/merchguard/pkg/repo"
)

// Analyzer runs a trade-safety analysis.
type Analyzer interface {
	Analyze(ctx context.Context, inputText, outputLanguage string) (domain.TradeSafetyAnalysis, error)
}

// Previewer extracts post metadata from a supported URL.
type Previewer interface {
	Preview(ctx context.Context, rawURL string) (domain.PostPreview, error)
}

type api struct {
	analyzer  Analyzer
	previews  Previewer
	store     repo.Store
	publisher *events.Publisher
	logger    *slog.Logger

	checksTotal   *metrics.Counter
	checkDuration *metrics.Histogram
	registry      *metrics.Registry
}

func newAPI(analyzer Analyzer, previews Previewer, store repo.Store, publisher *events.Publisher, registry *metrics.Registry, logger *slog.Logger) *api {
	return &api{
		analyzer:  analyzer,
		previews:  previews,
		store:     store,
		publisher: publisher,
		logger:    logger,

		checksTotal:   registry.Counter("checks_total", "Analysis checks started"),
		checkDuration: registry.Histogram("check_duration_seconds", "Time to complete a check", nil),
		registry:      registry,
	}
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckRequest is the JSON body for POST /api/checks.
type CheckRequest struct {
	InputText      string `json:"input_text"`
	OutputLanguage string `json:"output_language,omitempty"`
}

// CheckResponse is the JSON representation of a check record, with a
// quick summary attached once the analysis has completed.
type CheckResponse struct {
	repo.Check
	Summary *domain.QuickSummary `json:"summary,omitempty"`
}

func checkResponse(check repo.Check) CheckResponse {
	resp := CheckResponse{Check: check}
	if check.Analysis != nil {
		s := domain.Summarize(*check.Analysis)
		resp.Summary = &s
	}
	return resp
}

func (a *api) handleCreateCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OutputLanguage == "" {
		req.OutputLanguage = domain.DefaultLanguage
	}

	a.checksTotal.Inc()
	start := time.Now()

	check := repo.NewCheck(req.InputText, req.OutputLanguage)
	if err := a.store.Create(r.Context(), check); err != nil {
		a.logger.Error("create check failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := a.analyzer.Analyze(r.Context(), req.InputText, req.OutputLanguage)
	a.checkDuration.Since(start)
	if err != nil {
		a.finishCheck(r.Context(), check.Fail(err.Error()), events.SubjectCheckFailed,
			events.Failed(check.ID, err.Error()))
		a.registry.Counter(metrics.WithLabels("checks_finished_total", "status", "failed"), "Checks by outcome").Inc()
		a.logger.Warn("analysis failed", "check_id", check.ID, "err", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	check = check.Complete(result)
	a.finishCheck(r.Context(), check, events.SubjectCheckCompleted, events.Completed(check.ID, result))
	a.registry.Counter(metrics.WithLabels("checks_finished_total", "status", "completed"), "Checks by outcome").Inc()

	writeJSON(w, http.StatusCreated, checkResponse(check))
}

// finishCheck stores the terminal state and notifies subscribers. Both
// are best effort once the analysis itself has finished.
func (a *api) finishCheck(ctx context.Context, check repo.Check, subject string, event events.CheckEvent) {
	if err := a.store.Update(ctx, check); err != nil {
		a.logger.Error("update check failed", "check_id", check.ID, "err", err)
	}
	if err := a.publisher.Publish(ctx, subject, event); err != nil {
		a.logger.Warn("publish event failed", "check_id", check.ID, "err", err)
	}
}

func (a *api) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check id")
		return
	}

	check, err := a.store.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "check not found")
		return
	}
	if err != nil {
		a.logger.Error("get check failed", "check_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, checkResponse(check))
}

// CheckListItem is one row in the GET /api/checks listing.
type CheckListItem struct {
	ID        uuid.UUID            `json:"id"`
	Status    repo.Status          `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Summary   *domain.QuickSummary `json:"summary,omitempty"`
}

func (a *api) handleListChecks(w http.ResponseWriter, r *http.Request) {
	opts := repo.ListOpts{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 20),
	}
	checks, err := a.store.List(r.Context(), opts)
	if err != nil {
		a.logger.Error("list checks failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		checks = fn.Filter(checks, func(c repo.Check) bool {
			return c.Status == repo.Status(status)
		})
	}

	items := fn.Map(checks, func(c repo.Check) CheckListItem {
		item := CheckListItem{ID: c.ID, Status: c.Status, CreatedAt: c.CreatedAt}
		if c.Analysis != nil {
			s := domain.Summarize(*c.Analysis)
			item.Summary = &s
		}
		return item
	})
	writeJSON(w, http.StatusOK, map[string]any{"checks": items})
}

// PreviewRequest is the JSON body for POST /api/preview.
type PreviewRequest struct {
	URL string `json:"url"`
}

func (a *api) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	p, err := a.previews.Preview(r.Context(), req.URL)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// statusFor maps pipeline errors to HTTP status codes. Client mistakes
// are 4xx; upstream failures surface as 502 so callers can retry.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrInputTooLong),
		errors.Is(err, domain.ErrUnsupportedLanguage),
		errors.Is(err, domain.ErrBadThresholds):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrContentRetrieval),
		errors.Is(err, domain.ErrModelInvocation),
		errors.Is(err, domain.ErrModelResponse),
		errors.Is(err, domain.ErrInvalidScore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
