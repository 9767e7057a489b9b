package data

import (
	"sort"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

var (
	_ interfaces.InventoryStore     = (*inventoryStore)(nil)
	_ interfaces.InteractionStore   = (*interactionStore)(nil)
	_ interfaces.ConditionStore     = (*conditionStore)(nil)
	_ interfaces.DosageStore        = (*dosageStore)(nil)
	_ interfaces.SideEffectStore    = (*sideEffectStore)(nil)
	_ interfaces.EffectivenessStore = (*effectivenessStore)(nil)
	_ interfaces.PatternStore       = (*patternStore)(nil)
)

type inventoryStore struct {
	byName    map[string]entities.MedicineRecord
	byGeneric map[string][]entities.MedicineRecord
}

// newInventoryStore keeps the first row for a duplicated name.
func newInventoryStore(rows []entities.MedicineRecord) *inventoryStore {
	s := &inventoryStore{
		byName:    make(map[string]entities.MedicineRecord, len(rows)),
		byGeneric: make(map[string][]entities.MedicineRecord),
	}
	for _, m := range rows {
		k := Key(m.Name)
		if _, dup := s.byName[k]; dup {
			continue
		}
		s.byName[k] = m
		if g := Key(m.GenericName); g != "" {
			s.byGeneric[g] = append(s.byGeneric[g], m)
		}
	}
	return s
}

func (s *inventoryStore) LookupByMedicine(name string) (entities.MedicineRecord, bool) {
	m, ok := s.byName[Key(name)]
	return m, ok
}

func (s *inventoryStore) ByGeneric(genericName string) []entities.MedicineRecord {
	return s.byGeneric[Key(genericName)]
}

func (s *inventoryStore) Len() int { return len(s.byName) }

type interactionStore struct {
	byPair     map[string]entities.InteractionRecord
	byMedicine map[string][]entities.InteractionRecord
}

// newInteractionStore collapses rows stored for the same pair, in either
// order, to the one with the highest severity.
func newInteractionStore(rows []entities.InteractionRecord) *interactionStore {
	s := &interactionStore{
		byPair:     make(map[string]entities.InteractionRecord, len(rows)),
		byMedicine: make(map[string][]entities.InteractionRecord),
	}
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		k := PairKey(r.DrugA, r.DrugB)
		prev, seen := s.byPair[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || r.Severity.Rank() > prev.Severity.Rank() {
			s.byPair[k] = r
		}
	}
	for _, k := range order {
		r := s.byPair[k]
		a, b := Key(r.DrugA), Key(r.DrugB)
		s.byMedicine[a] = append(s.byMedicine[a], r)
		if b != a {
			s.byMedicine[b] = append(s.byMedicine[b], r)
		}
	}
	return s
}

func (s *interactionStore) LookupByPair(a, b string) (entities.InteractionRecord, bool) {
	r, ok := s.byPair[PairKey(a, b)]
	return r, ok
}

func (s *interactionStore) ForMedicine(name string) []entities.InteractionRecord {
	return s.byMedicine[Key(name)]
}

func (s *interactionStore) Len() int { return len(s.byPair) }

type conditionStore struct {
	byCondition map[string][]entities.ConditionTreatment
	byMedicine  map[string][]entities.ConditionTreatment
	n           int
}

func newConditionStore(rows []entities.ConditionTreatment) *conditionStore {
	s := &conditionStore{
		byCondition: make(map[string][]entities.ConditionTreatment),
		byMedicine:  make(map[string][]entities.ConditionTreatment),
		n:           len(rows),
	}
	for _, r := range rows {
		s.byCondition[Key(r.Condition)] = append(s.byCondition[Key(r.Condition)], r)
		s.byMedicine[Key(r.MedicineName)] = append(s.byMedicine[Key(r.MedicineName)], r)
	}
	// First-line treatments first, then by effectiveness.
	for _, list := range s.byCondition {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].TreatmentLine.Rank() != list[j].TreatmentLine.Rank() {
				return list[i].TreatmentLine.Rank() > list[j].TreatmentLine.Rank()
			}
			return list[i].EffectivenessRating > list[j].EffectivenessRating
		})
	}
	return s
}

func (s *conditionStore) LookupByCondition(condition string) []entities.ConditionTreatment {
	return s.byCondition[Key(condition)]
}

func (s *conditionStore) LookupByMedicine(name string) []entities.ConditionTreatment {
	return s.byMedicine[Key(name)]
}

func (s *conditionStore) Len() int { return s.n }

type dosageStore struct {
	byMedicine map[string][]entities.DosageGuideline
	n          int
}

func newDosageStore(rows []entities.DosageGuideline) *dosageStore {
	s := &dosageStore{byMedicine: make(map[string][]entities.DosageGuideline), n: len(rows)}
	for _, g := range rows {
		k := Key(g.MedicineName)
		s.byMedicine[k] = append(s.byMedicine[k], g)
	}
	for _, list := range s.byMedicine {
		sort.SliceStable(list, func(i, j int) bool { return list[i].MinAgeMonths < list[j].MinAgeMonths })
	}
	return s
}

func (s *dosageStore) LookupByMedicine(name string) []entities.DosageGuideline {
	return s.byMedicine[Key(name)]
}

func (s *dosageStore) Len() int { return s.n }

type sideEffectStore struct {
	byMedicine map[string][]entities.SideEffectRecord
	n          int
}

func newSideEffectStore(rows []entities.SideEffectRecord) *sideEffectStore {
	s := &sideEffectStore{byMedicine: make(map[string][]entities.SideEffectRecord), n: len(rows)}
	for _, r := range rows {
		k := Key(r.MedicineName)
		s.byMedicine[k] = append(s.byMedicine[k], r)
	}
	return s
}

func (s *sideEffectStore) LookupByMedicine(name string) []entities.SideEffectRecord {
	return s.byMedicine[Key(name)]
}

func (s *sideEffectStore) Len() int { return s.n }

type effectivenessStore struct {
	byMedicine  map[string][]entities.EffectivenessRecord
	byCondition map[string][]entities.EffectivenessRecord
	n           int
}

func newEffectivenessStore(rows []entities.EffectivenessRecord) *effectivenessStore {
	s := &effectivenessStore{
		byMedicine:  make(map[string][]entities.EffectivenessRecord),
		byCondition: make(map[string][]entities.EffectivenessRecord),
		n:           len(rows),
	}
	for _, r := range rows {
		s.byMedicine[Key(r.MedicineName)] = append(s.byMedicine[Key(r.MedicineName)], r)
		s.byCondition[Key(r.Condition)] = append(s.byCondition[Key(r.Condition)], r)
	}
	for _, list := range s.byCondition {
		sort.SliceStable(list, func(i, j int) bool { return list[i].EffectivenessPercent > list[j].EffectivenessPercent })
	}
	return s
}

func (s *effectivenessStore) LookupByMedicine(name string) []entities.EffectivenessRecord {
	return s.byMedicine[Key(name)]
}

func (s *effectivenessStore) LookupByCondition(condition string) []entities.EffectivenessRecord {
	return s.byCondition[Key(condition)]
}

func (s *effectivenessStore) Len() int { return s.n }

type patternStore struct {
	byMedicine  map[string][]entities.PrescriptionPattern
	byCondition map[string][]entities.PrescriptionPattern
	n           int
}

func newPatternStore(rows []entities.PrescriptionPattern) *patternStore {
	s := &patternStore{
		byMedicine:  make(map[string][]entities.PrescriptionPattern),
		byCondition: make(map[string][]entities.PrescriptionPattern),
		n:           len(rows),
	}
	for _, r := range rows {
		s.byMedicine[Key(r.MedicineName)] = append(s.byMedicine[Key(r.MedicineName)], r)
		s.byCondition[Key(r.Condition)] = append(s.byCondition[Key(r.Condition)], r)
	}
	for _, list := range s.byCondition {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].PrescriptionSharePercent > list[j].PrescriptionSharePercent
		})
	}
	return s
}

func (s *patternStore) LookupByMedicine(name string) []entities.PrescriptionPattern {
	return s.byMedicine[Key(name)]
}

func (s *patternStore) LookupByCondition(condition string) []entities.PrescriptionPattern {
	return s.byCondition[Key(condition)]
}

func (s *patternStore) Len() int { return s.n }
