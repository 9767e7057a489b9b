// Package handlers serves the prescription analysis API: full assessments,
// medicine and condition insights, ad-hoc interaction checks and health.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/medicaments-safety/engine"
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"
)

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// Analyzer is the part of the engine the handlers call.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*engine.Assessment, error)
	MedicineInsight(name string, ageMonths *int) (*engine.MedicineInsight, error)
	ConditionInsight(condition, exclude string, ageMonths *int) (*engine.ConditionInsight, error)
	CheckInteractions(names []string) ([]engine.ResolvedInteraction, error)
}

type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	analyzer      Analyzer
}

func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker, analyzer Analyzer) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
		analyzer:      analyzer,
	}
}

// HealthResponse keeps a stable JSON field order.
type HealthResponse struct {
	Status        string         `json:"status"`
	LastUpdate    string         `json:"last_update"`
	DataAgeHours  float64        `json:"data_age_hours"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Uptime        string         `json:"uptime"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// InteractionCheckResponse is returned by the interaction endpoint.
type InteractionCheckResponse struct {
	Drugs           []string                     `json:"drugs"`
	Interactions    []engine.ResolvedInteraction `json:"interactions"`
	HighestSeverity entities.InteractionSeverity `json:"highest_severity,omitempty"`
}

func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondWithFailure answers with a failure envelope and the matching status.
func (h *HTTPHandlerImpl) respondWithFailure(w http.ResponseWriter, err error) {
	env := engine.FailureFrom(err)
	code := statusFor(env.Failure.Code)
	if code == http.StatusInternalServerError {
		logging.Error("Analysis failed", "error", err)
	}
	h.RespondWithJSON(w, code, env)
}

func statusFor(failureCode string) int {
	switch failureCode {
	case engine.CodeInvalidInput:
		return http.StatusBadRequest
	case engine.CodeNotFound:
		return http.StatusNotFound
	case engine.CodeRequestTimeout:
		return http.StatusGatewayTimeout
	case engine.CodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// AnalyzePrescription assesses a posted prescription. Every answer, success
// or not, is a versioned envelope.
func (h *HTTPHandlerImpl) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logging.Warn("Invalid analyze request body", "error", err)
		h.respondWithFailure(w, &engine.InputError{Field: "body", Reason: decodeReason(err)})
		return
	}

	for i, m := range req.Medicines {
		if err := h.validator.ValidateMedicineName(m.Name); err != nil {
			logging.Warn("Invalid medicine name", "index", i, "error", err)
			h.respondWithFailure(w, &engine.InputError{Field: fmt.Sprintf("medicines[%d].name", i), Reason: err.Error()})
			return
		}
	}

	a, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		h.respondWithFailure(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, engine.Success(a))
}

func decodeReason(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Sprintf("request body larger than %d bytes", maxErr.Limit)
	}
	return "malformed JSON: " + err.Error()
}

// MedicineInsight serves GET /v1/medicines/{name}?age_months=N.
func (h *HTTPHandlerImpl) MedicineInsight(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if err := h.validator.ValidateMedicineName(name); err != nil {
		logging.Warn("Unusual user input", "name", name, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	age, err := h.ageParam(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	insight, err := h.analyzer.MedicineInsight(name, age)
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, insight)
}

// ConditionInsight serves GET /v1/conditions/{condition}?exclude=X&age_months=N.
func (h *HTTPHandlerImpl) ConditionInsight(w http.ResponseWriter, r *http.Request) {
	condition := pathParam(r, "condition")
	if err := h.validator.ValidateConditionName(condition); err != nil {
		logging.Warn("Unusual user input", "condition", condition, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	exclude := r.URL.Query().Get("exclude")
	if exclude != "" {
		if err := h.validator.ValidateMedicineName(exclude); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	age, err := h.ageParam(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	insight, err := h.analyzer.ConditionInsight(condition, exclude, age)
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}
	h.RespondWithJSON(w, http.StatusOK, insight)
}

// CheckInteractions serves GET /v1/interactions?drugs=a,b,c.
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("drugs")
	if raw == "" {
		h.RespondWithError(w, http.StatusBadRequest, "drugs parameter is required, e.g. ?drugs=warfarin,aspirin")
		return
	}

	drugs := make([]string, 0)
	for _, d := range strings.Split(raw, ",") {
		d = strings.TrimSpace(d)
		if err := h.validator.ValidateMedicineName(d); err != nil {
			logging.Warn("Unusual user input", "drugs", raw, "error", err)
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		drugs = append(drugs, d)
	}

	found, err := h.analyzer.CheckInteractions(drugs)
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	resp := InteractionCheckResponse{Drugs: drugs, Interactions: found}
	for _, f := range found {
		if f.Severity.Rank() > resp.HighestSeverity.Rank() {
			resp.HighestSeverity = f.Severity
		}
	}
	h.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandlerImpl) respondWithLookupError(w http.ResponseWriter, err error) {
	var inErr *engine.InputError
	switch {
	case errors.As(err, &inErr):
		h.RespondWithError(w, http.StatusBadRequest, inErr.Reason)
	case errors.Is(err, engine.ErrNotFound):
		h.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		logging.Error("Lookup failed", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// HealthCheck reports data freshness, record counts and runtime figures.
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.healthChecker.HealthCheck()

	uptime := time.Duration(0)
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}
	lastUpdate := h.dataStore.GetLastUpdated()
	dataAge, _ := data["data_age_hours"].(float64)

	response := HealthResponse{
		Status:        status,
		LastUpdate:    lastUpdate.Format(time.RFC3339),
		DataAgeHours:  dataAge,
		UptimeSeconds: uptime.Seconds(),
		Uptime:        formatUptimeHuman(uptime),
		Data:          data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// ageParam reads the optional age_months query parameter.
func (h *HTTPHandlerImpl) ageParam(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("age_months")
	if raw == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("age_months must be a whole number of months")
	}
	if err := h.validator.ValidateAgeMonths(age); err != nil {
		return nil, err
	}
	return &age, nil
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
