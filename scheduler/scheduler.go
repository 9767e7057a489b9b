// Package scheduler loads the reference data at startup and reloads it at
// fixed times of day, swapping the new snapshot in atomically.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"
	"github.com/giygas/medicaments-safety/metrics"
)

var _ interfaces.Scheduler = (*Scheduler)(nil)

// loadTimeout bounds one full load of the seven stores.
const loadTimeout = 2 * time.Minute

// Purger drops state derived from the previous snapshot.
type Purger interface {
	Purge()
}

// Scheduler runs reference data reloads.
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	validator interfaces.DataValidator
	purger    Purger
	reloadAt  []string
	scheduler *gocron.Scheduler
	stop      chan struct{}
}

// NewScheduler wires the reload. purger may be nil. reloadAt holds HH:MM
// times; empty means 06:00 and 18:00.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator, purger Purger, reloadAt []string) *Scheduler {
	if len(reloadAt) == 0 {
		reloadAt = []string{"06:00", "18:00"}
	}
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		purger:    purger,
		reloadAt:  reloadAt,
		scheduler: gocron.NewScheduler(time.Local),
		stop:      make(chan struct{}),
	}
}

// Start performs the initial load, which must succeed, then schedules reloads.
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(strings.Join(s.reloadAt, ";")).Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to reload reference data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop is safe to call more than once.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// NextRun reports when the next reload is due, zero before Start.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// updateData loads, validates and swaps in a new dataset. A failed load or
// validation keeps the current data in service.
func (s *Scheduler) updateData() (err error) {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	var records map[string]int
	defer func() { metrics.ObserveReload(err, records) }()

	logging.Info("Starting reference data load", "source", s.loader.Source())
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	if err = s.validator.ValidateDataset(ds); err != nil {
		return fmt.Errorf("reference data rejected: %w", err)
	}

	report := s.validator.ReportDataQuality(ds)
	logReport(report)

	s.dataStore.UpdateData(ds, report)
	if s.purger != nil {
		s.purger.Purge()
	}
	records = report.RecordsPerStore

	logging.Info("Reference data load completed",
		"duration", time.Since(start).String(),
		"medicine_count", report.MedicineCount,
		"generation", s.dataStore.Current().Generation())

	return nil
}

func logReport(report *interfaces.DataQualityReport) {
	if len(report.DuplicateMedicines) > 0 {
		logging.Warn("Duplicate medicines detected, first row kept",
			"total", len(report.DuplicateMedicines),
			"names", report.DuplicateMedicines,
		)
	}

	if len(report.InvalidMedicines) > 0 {
		logging.Warn("Medicines with negative price or stock",
			"names", report.InvalidMedicines,
		)
	}

	if len(report.ConflictingInteractions) > 0 {
		logging.Warn("Interaction pairs stored with conflicting severities, highest kept",
			"total", len(report.ConflictingInteractions),
			"pairs", report.ConflictingInteractions,
		)
	}

	if len(report.InvalidDosageBands) > 0 {
		logging.Warn("Dosage guidelines with invalid age bands",
			"bands", report.InvalidDosageBands,
		)
	}

	if report.MedicinesWithoutGeneric > 0 {
		logging.Info("Medicines without generic name", "count", report.MedicinesWithoutGeneric)
	}

	if report.DanglingReferences > 0 || report.SelfInteractions > 0 || report.OutOfRangePercentages > 0 {
		logging.Warn("Reference data inconsistencies",
			"dangling_references", report.DanglingReferences,
			"self_interactions", report.SelfInteractions,
			"out_of_range_percentages", report.OutOfRangePercentages,
		)
	}
}

// startHealthMonitoring warns when reloads have stopped succeeding.
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Reference data hasn't been updated in over 25 hours")
				}
			}
		}
	}()
}
