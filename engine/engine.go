// Package engine turns a prescription into a safety assessment: interaction
// and age checks, per-medicine safety profiles, a risk tier and scored
// cheaper alternatives, all computed against one reference snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"
	"github.com/giygas/medicaments-safety/metrics"
	"github.com/giygas/medicaments-safety/validation"
)

// ReferenceSource hands out the snapshot an analysis runs against.
// *data.DataContainer satisfies it.
type ReferenceSource interface {
	Current() interfaces.ReferenceData
}

type Engine struct {
	source ReferenceSource
	opts   Options
	cache  *alternativesCache
}

func New(source ReferenceSource, opts Options) (*Engine, error) {
	if source == nil {
		return nil, errors.New("engine needs a reference source")
	}
	opts = opts.withDefaults()
	cache, err := newAlternativesCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{source: source, opts: opts, cache: cache}, nil
}

func (e *Engine) Options() Options { return e.opts }

// Purge drops cached alternatives. Entries are keyed by snapshot generation
// so this only frees memory after a reload.
func (e *Engine) Purge() {
	e.cache.purge()
}

type medicineResult struct {
	profile MedicineSafetyProfile
	block   MedicineAlternatives
}

// Analyze assesses a whole prescription. It fails only on invalid input or
// when the request deadline passes, and never returns a partial assessment.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Assessment, error) {
	start := time.Now()
	if err := e.validate(req); err != nil {
		metrics.ObserveAnalysis("invalid_input", time.Since(start))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	ref := e.source.Current()
	names := make([]string, len(req.Medicines))
	for i, m := range req.Medicines {
		names[i] = strings.TrimSpace(m.Name)
	}
	resolved := ResolveInteractions(ref.Interactions(), names)

	// Results are written by index so output order is input order.
	results := make([]medicineResult, len(req.Medicines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, item := range req.Medicines {
		i, item := i, item
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			age := req.PatientAgeMonths
			if item.AgeMonths != nil {
				age = item.AgeMonths
			}
			results[i] = e.analyzeMedicine(ref, names[i], item.Quantity, age, resolved)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.ObserveAnalysis("timeout", time.Since(start))
			logging.Warn("Analysis timed out", "medicines", len(req.Medicines), "timeout", e.opts.RequestTimeout)
			return nil, fmt.Errorf("%w after %s", ErrRequestTimeout, e.opts.RequestTimeout)
		}
		metrics.ObserveAnalysis("canceled", time.Since(start))
		logging.Debug("Analysis canceled by caller", "medicines", len(req.Medicines))
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	a := assemble(results)
	unknown := 0
	for _, r := range results {
		if !r.profile.Known {
			unknown++
		}
	}
	metrics.UnknownMedicinesTotal.Add(float64(unknown))
	metrics.ObserveAnalysis(strings.ToLower(string(a.SafetyScore)), time.Since(start))

	logging.Debug("Prescription analysed",
		"medicines", len(req.Medicines),
		"unknown", unknown,
		"risk", a.SafetyScore,
		"warnings", len(a.CriticalWarnings),
		"generation", ref.Generation(),
		"duration", time.Since(start))
	return a, nil
}

func (e *Engine) validate(req Request) error {
	if len(req.Medicines) == 0 {
		return inputErr("medicines", "must contain at least one medicine")
	}
	if len(req.Medicines) > e.opts.MaxMedicines {
		return inputErr("medicines", "at most %d medicines per request, got %d", e.opts.MaxMedicines, len(req.Medicines))
	}
	if err := validateAge("patient_age_months", req.PatientAgeMonths); err != nil {
		return err
	}
	for i, m := range req.Medicines {
		if strings.TrimSpace(m.Name) == "" {
			return inputErr(fmt.Sprintf("medicines[%d].name", i), "must not be blank")
		}
		if err := validateAge(fmt.Sprintf("medicines[%d].age_months", i), m.AgeMonths); err != nil {
			return err
		}
	}
	return nil
}

func validateAge(field string, age *int) error {
	if age == nil {
		return nil
	}
	if *age < 0 || *age > validation.MaxAgeMonths {
		return inputErr(field, "must be between 0 and %d months, got %d", validation.MaxAgeMonths, *age)
	}
	return nil
}

func (e *Engine) analyzeMedicine(ref interfaces.ReferenceData, name, quantity string, age *int, resolved []ResolvedInteraction) medicineResult {
	record, known := ref.Inventory().LookupByMedicine(name)
	profile := BuildProfile(ref, name, record, known, resolved, age, e.opts.MaxSideEffects)

	alts := []Alternative{}
	if known {
		alts = e.alternatives(ref, record, age)
	}

	original := OriginalMedicine{
		Name:            profile.MedicineName,
		CurrentQuantity: quantity,
		SafetyConcerns:  profile.SafetyConcerns,
		AgeAppropriate:  profile.Age.Appropriate,
	}
	eff := estimateEffectiveness(ref.Effectiveness(), treatedConditions(ref, profile.MedicineName), 0,
		profile.MedicineName, record.GenericName)
	if eff.Verified {
		original.EffectivenessRating = fmt.Sprintf("%.0f%% for %s (%s evidence)", eff.Percent, eff.Condition, eff.Evidence)
	} else {
		profile.DataGaps = append(profile.DataGaps, GapNoEffectivenessData)
	}

	interactionCount := 0
	for _, r := range profile.Interactions {
		if r.Severity.AtLeast(entities.InteractionModerate) {
			interactionCount++
		}
	}

	return medicineResult{
		profile: profile,
		block: MedicineAlternatives{
			OriginalMedicine:        original,
			RecommendedAlternatives: alts,
			SafetyConsiderations: SafetyConsiderations{
				DrugInteractions:  interactionCount,
				SevereSideEffects: len(profile.SevereSideEffects),
				AgeRestrictions:   !profile.Age.Appropriate,
			},
			ClinicalNotes: clinicalNotes(profile, record, alts),
		},
	}
}

func (e *Engine) alternatives(ref interfaces.ReferenceData, record entities.MedicineRecord, age *int) []Alternative {
	key := cacheKey(ref.Generation(), record.Name, age)
	if alts, ok := e.cache.get(key); ok {
		return alts
	}
	alts := ScoreAlternatives(ref, record, age, e.opts)
	e.cache.add(key, alts)
	return alts
}

// CheckInteractions resolves the interactions among names without a full
// assessment.
func (e *Engine) CheckInteractions(names []string) ([]ResolvedInteraction, error) {
	distinct := 0
	seen := make(map[string]bool)
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, inputErr(fmt.Sprintf("drugs[%d]", i), "must not be blank")
		}
		k := data.Key(n)
		if !seen[k] {
			seen[k] = true
			distinct++
		}
	}
	if distinct < 2 {
		return nil, inputErr("drugs", "at least two distinct medicines are required")
	}
	if len(names) > e.opts.MaxMedicines {
		return nil, inputErr("drugs", "at most %d medicines per request, got %d", e.opts.MaxMedicines, len(names))
	}
	ref := e.source.Current()
	return withInventoryNames(ref.Inventory(), ResolveInteractions(ref.Interactions(), names)), nil
}
