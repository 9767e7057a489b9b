// Package health reports service health from the freshness and size of the
// reference data in service.
package health

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/giygas/medicaments-safety/interfaces"
)

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	reloadAt  []time.Duration // offsets from midnight, ascending
}

// NewHealthChecker takes the daily reload times as HH:MM. Unparseable
// entries are ignored; none at all means 06:00 and 18:00.
func NewHealthChecker(dataStore interfaces.DataStore, reloadAt []string) *HealthCheckerImpl {
	offsets := make([]time.Duration, 0, len(reloadAt))
	for _, raw := range reloadAt {
		t, err := time.Parse("15:04", raw)
		if err != nil {
			continue
		}
		offsets = append(offsets, time.Duration(t.Hour())*time.Hour+time.Duration(t.Minute())*time.Minute)
	}
	if len(offsets) == 0 {
		offsets = []time.Duration{6 * time.Hour, 18 * time.Hour}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	return &HealthCheckerImpl{dataStore: dataStore, reloadAt: offsets}
}

// HealthCheck returns the status for the /health endpoint. Data older than a
// day is degraded, older than two days or an empty inventory is unhealthy.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	ref := h.dataStore.Current()
	medicines := ref.Inventory().Len()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case medicines == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"generation":     ref.Generation(),
		"is_updating":    isUpdating,
		"records": map[string]int{
			"medicines":     medicines,
			"interactions":  ref.Interactions().Len(),
			"conditions":    ref.Conditions().Len(),
			"dosage":        ref.Dosage().Len(),
			"side_effects":  ref.SideEffects().Len(),
			"effectiveness": ref.Effectiveness().Len(),
			"patterns":      ref.Patterns().Len(),
		},
	}

	if report := h.dataStore.GetDataQualityReport(); report != nil {
		data["data_quality"] = map[string]any{
			"duplicate_medicines":       len(report.DuplicateMedicines),
			"medicines_without_generic": report.MedicinesWithoutGeneric,
			"conflicting_interactions":  len(report.ConflictingInteractions),
			"invalid_dosage_bands":      len(report.InvalidDosageBands),
			"medicines_without_dosage":  report.MedicinesWithoutDosage,
			"dangling_references":       report.DanglingReferences,
		}
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next configured reload time after now.
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	return h.nextAfter(time.Now())
}

func (h *HealthCheckerImpl) nextAfter(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, off := range h.reloadAt {
		if t := midnight.Add(off); now.Before(t) {
			return t
		}
	}
	return midnight.AddDate(0, 0, 1).Add(h.reloadAt[0])
}
