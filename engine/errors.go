package engine

import (
	"errors"
	"fmt"
)

// Fatal request errors. Everything else is absorbed into the assessment as a DataGap.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRequestTimeout = errors.New("request timed out")
	ErrCanceled       = errors.New("request canceled")
)

// ErrNotFound is returned by the insight lookups when nothing is on record.
var ErrNotFound = errors.New("not found")

// InputError names the offending field of a rejected request.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func inputErr(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DataGap marks reference data that was missing for a medicine. The engine
// applies a documented default wherever a gap is recorded.
type DataGap string

const (
	GapUnknownMedicine     DataGap = "unknown_medicine"
	GapNoGenericName       DataGap = "no_generic_name"
	GapNoDosageCoverage    DataGap = "no_dosage_coverage"
	GapNoSideEffectData    DataGap = "no_side_effect_data"
	GapNoEffectivenessData DataGap = "no_effectiveness_data"
)
