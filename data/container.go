// Package data keeps the reference stores in memory. The DataContainer swaps
// whole snapshots atomically so analyses never see a half-loaded dataset.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"
)

var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current snapshot with lock-free reads.
type DataContainer struct {
	snapshot        atomic.Value // *Snapshot
	generation      atomic.Uint64
	lastUpdated     atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
	updating        atomic.Bool
	report          atomic.Pointer[interfaces.DataQualityReport]
}

// NewDataContainer returns a container serving an empty snapshot.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.snapshot.Store(NewSnapshot(nil, 0))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Current returns the snapshot in service. It never returns nil.
func (dc *DataContainer) Current() interfaces.ReferenceData {
	if v := dc.snapshot.Load(); v != nil {
		if s, ok := v.(*Snapshot); ok && s != nil {
			return s
		}
	}

	logging.Warn("Reference snapshot is empty or invalid")
	return NewSnapshot(nil, 0)
}

// UpdateData indexes ds and swaps it in as the current snapshot together
// with the quality report of that load.
func (dc *DataContainer) UpdateData(ds *entities.Dataset, report *interfaces.DataQualityReport) {
	snap := NewSnapshot(ds, dc.generation.Add(1))
	dc.snapshot.Store(snap)
	dc.report.Store(report)
	dc.lastUpdated.Store(time.Now())
}

// GetDataQualityReport returns the report of the last load, nil before the first.
func (dc *DataContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	return dc.report.Load()
}

func (dc *DataContainer) GetLastUpdated() time.Time {
	if v, ok := dc.lastUpdated.Load().(time.Time); ok {
		return v
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

func (dc *DataContainer) SetServerStartTime(t time.Time) {
	dc.serverStartTime.Store(t)
}

func (dc *DataContainer) GetServerStartTime() time.Time {
	if v, ok := dc.serverStartTime.Load().(time.Time); ok {
		return v
	}
	return time.Time{}
}

func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// BeginUpdate reports false when another reload already holds the flag.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
