package engine

import (
	"sort"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/interfaces"
)

// ResolveInteractions checks every pair of distinct names against the store.
// Names are compared folded; repeats of the same medicine are ignored. Results
// follow the order in which the pairs occur in names, and unknown medicines
// contribute nothing.
func ResolveInteractions(store interfaces.InteractionStore, names []string) []ResolvedInteraction {
	distinct := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		k := data.Key(n)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		distinct = append(distinct, n)
	}

	found := make([]ResolvedInteraction, 0)
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			r, ok := store.LookupByPair(distinct[i], distinct[j])
			if !ok {
				continue
			}
			found = append(found, ResolvedInteraction{
				Medicine:          distinct[i],
				Other:             distinct[j],
				InteractionRecord: r,
			})
		}
	}
	return found
}

// withInventoryNames replaces the names as typed with the inventory's
// spelling for every medicine that is stocked.
func withInventoryNames(inv interfaces.InventoryStore, resolved []ResolvedInteraction) []ResolvedInteraction {
	for i := range resolved {
		if rec, ok := inv.LookupByMedicine(resolved[i].Medicine); ok {
			resolved[i].Medicine = rec.Name
		}
		if rec, ok := inv.LookupByMedicine(resolved[i].Other); ok {
			resolved[i].Other = rec.Name
		}
	}
	return resolved
}

// interactionsFor restricts resolved to those involving name, seen from
// name's side, most severe first.
func interactionsFor(resolved []ResolvedInteraction, name string) []ResolvedInteraction {
	k := data.Key(name)
	out := make([]ResolvedInteraction, 0)
	for _, r := range resolved {
		switch k {
		case data.Key(r.Medicine):
			out = append(out, r)
		case data.Key(r.Other):
			r.Medicine, r.Other = r.Other, r.Medicine
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() > out[j].Severity.Rank()
		}
		return data.Key(out[i].Other) < data.Key(out[j].Other)
	})
	return out
}
