package engine

import "time"

// Options tunes the analysis. Zero fields fall back to DefaultOptions.
type Options struct {
	MaxAlternatives             int
	MaxSideEffects              int
	MinStock                    int
	DefaultEffectivenessPercent float64
	// CheaperRatio is the price ratio at or below which an alternative counts as cheaper.
	CheaperRatio   float64
	Workers        int
	RequestTimeout time.Duration
	CacheSize      int
	MaxMedicines   int
}

func DefaultOptions() Options {
	return Options{
		MaxAlternatives:             3,
		MaxSideEffects:              4,
		MinStock:                    10,
		DefaultEffectivenessPercent: 75,
		CheaperRatio:                0.8,
		Workers:                     4,
		RequestTimeout:              5 * time.Second,
		CacheSize:                   1024,
		MaxMedicines:                50,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxAlternatives <= 0 {
		o.MaxAlternatives = d.MaxAlternatives
	}
	if o.MaxSideEffects <= 0 {
		o.MaxSideEffects = d.MaxSideEffects
	}
	if o.MinStock <= 0 {
		o.MinStock = d.MinStock
	}
	if o.DefaultEffectivenessPercent <= 0 {
		o.DefaultEffectivenessPercent = d.DefaultEffectivenessPercent
	}
	if o.CheaperRatio <= 0 || o.CheaperRatio >= 1 {
		o.CheaperRatio = d.CheaperRatio
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = d.RequestTimeout
	}
	if o.MaxMedicines <= 0 {
		o.MaxMedicines = d.MaxMedicines
	}
	// CacheSize 0 disables the cache, negative means default.
	if o.CacheSize < 0 {
		o.CacheSize = d.CacheSize
	}
	return o
}
