package data

import (
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

var _ interfaces.ReferenceData = (*Snapshot)(nil)

// Snapshot is an immutable, fully indexed view of one dataset load.
type Snapshot struct {
	inventory     *inventoryStore
	interactions  *interactionStore
	conditions    *conditionStore
	dosage        *dosageStore
	sideEffects   *sideEffectStore
	effectiveness *effectivenessStore
	patterns      *patternStore
	generation    uint64
}

// NewSnapshot indexes ds. A nil dataset yields empty stores.
func NewSnapshot(ds *entities.Dataset, generation uint64) *Snapshot {
	if ds == nil {
		ds = &entities.Dataset{}
	}
	return &Snapshot{
		inventory:     newInventoryStore(ds.Medicines),
		interactions:  newInteractionStore(ds.Interactions),
		conditions:    newConditionStore(ds.Conditions),
		dosage:        newDosageStore(ds.Dosage),
		sideEffects:   newSideEffectStore(ds.SideEffects),
		effectiveness: newEffectivenessStore(ds.Effectiveness),
		patterns:      newPatternStore(ds.Patterns),
		generation:    generation,
	}
}

func (s *Snapshot) Inventory() interfaces.InventoryStore { return s.inventory }
func (s *Snapshot) Interactions() interfaces.InteractionStore { return s.interactions }
func (s *Snapshot) Conditions() interfaces.ConditionStore { return s.conditions }
func (s *Snapshot) Dosage() interfaces.DosageStore { return s.dosage }
func (s *Snapshot) SideEffects() interfaces.SideEffectStore { return s.sideEffects }
func (s *Snapshot) Effectiveness() interfaces.EffectivenessStore { return s.effectiveness }
func (s *Snapshot) Patterns() interfaces.PatternStore { return s.patterns }
func (s *Snapshot) Generation() uint64 { return s.generation }
