// Package interfaces defines the contracts between the reference data layer,
// the loaders and the analysis engine so each side can be tested alone.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/medicaments-safety/entities"
)

// DataQualityReport summarises problems found in a freshly loaded dataset.
// None of them stop a load; they are logged and exposed on /health.
type DataQualityReport struct {
	MedicineCount           int
	DuplicateMedicines      []string
	MedicinesWithoutGeneric int
	InvalidMedicines        []string // negative price or stock
	ConflictingInteractions []string // same pair stored with different severities
	SelfInteractions        int
	InvalidDosageBands      []string
	MedicinesWithoutDosage  int
	OutOfRangePercentages   int
	DanglingReferences      int // rows naming a medicine absent from Inventory
	RecordsPerStore         map[string]int
}

// InventoryStore answers price and stock questions.
type InventoryStore interface {
	LookupByMedicine(name string) (entities.MedicineRecord, bool)
	ByGeneric(genericName string) []entities.MedicineRecord
	Len() int
}

// InteractionStore is symmetric: LookupByPair(a, b) == LookupByPair(b, a).
type InteractionStore interface {
	LookupByPair(a, b string) (entities.InteractionRecord, bool)
	ForMedicine(name string) []entities.InteractionRecord
	Len() int
}

type ConditionStore interface {
	LookupByCondition(condition string) []entities.ConditionTreatment
	LookupByMedicine(name string) []entities.ConditionTreatment
	Len() int
}

type DosageStore interface {
	LookupByMedicine(name string) []entities.DosageGuideline
	Len() int
}

type SideEffectStore interface {
	LookupByMedicine(name string) []entities.SideEffectRecord
	Len() int
}

type EffectivenessStore interface {
	LookupByMedicine(name string) []entities.EffectivenessRecord
	LookupByCondition(condition string) []entities.EffectivenessRecord
	Len() int
}

type PatternStore interface {
	LookupByMedicine(name string) []entities.PrescriptionPattern
	LookupByCondition(condition string) []entities.PrescriptionPattern
	Len() int
}

// ReferenceData is one immutable, consistent view over all seven stores.
type ReferenceData interface {
	Inventory() InventoryStore
	Interactions() InteractionStore
	Conditions() ConditionStore
	Dosage() DosageStore
	SideEffects() SideEffectStore
	Effectiveness() EffectivenessStore
	Patterns() PatternStore
	// Generation increases with every swap so derived caches can tell views apart.
	Generation() uint64
}

// DataStore holds the current ReferenceData and swaps it without blocking readers.
type DataStore interface {
	Current() ReferenceData
	UpdateData(ds *entities.Dataset, report *DataQualityReport)
	GetDataQualityReport() *DataQualityReport
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	BeginUpdate() bool
	EndUpdate()
}

// Loader reads all seven reference stores from a backing source.
type Loader interface {
	Load(ctx context.Context) (*entities.Dataset, error)
	Source() string
}

// Scheduler runs the periodic reference data reload.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler serves the public API endpoints.
type HTTPHandler interface {
	AnalyzePrescription(w http.ResponseWriter, r *http.Request)
	MedicineInsight(w http.ResponseWriter, r *http.Request)
	ConditionInsight(w http.ResponseWriter, r *http.Request)
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports service health from data freshness.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}

// DataValidator checks loaded datasets and user supplied values.
type DataValidator interface {
	ValidateDataset(ds *entities.Dataset) error
	ReportDataQuality(ds *entities.Dataset) *DataQualityReport
	ValidateMedicineName(name string) error
	ValidateConditionName(name string) error
	ValidateAgeMonths(age int) error
}
