package engine

import (
	"context"
	"errors"
)

// SchemaVersion is bumped whenever the serialised Assessment changes shape.
const SchemaVersion = "2.0"

type EnvelopeKind string

const (
	KindAssessment EnvelopeKind = "assessment"
	KindFailure    EnvelopeKind = "failure"
)

// Failure codes carried by a failure envelope.
const (
	CodeInvalidInput   = "invalid_input"
	CodeRequestTimeout = "request_timeout"
	CodeCanceled       = "request_canceled"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Envelope is the only shape an analysis leaves the engine in. Exactly one
// of Assessment and Failure is set, as named by Kind.
type Envelope struct {
	SchemaVersion string       `json:"schema_version"`
	Kind          EnvelopeKind `json:"kind"`
	Assessment    *Assessment  `json:"assessment,omitempty"`
	Failure       *Failure     `json:"failure,omitempty"`
}

func Success(a *Assessment) Envelope {
	return Envelope{SchemaVersion: SchemaVersion, Kind: KindAssessment, Assessment: a}
}

// FailureFrom classifies err into a failure envelope.
func FailureFrom(err error) Envelope {
	f := &Failure{Code: CodeInternal, Message: "internal error"}

	var inErr *InputError
	switch {
	case errors.As(err, &inErr):
		f.Code, f.Message, f.Field = CodeInvalidInput, inErr.Reason, inErr.Field
	case errors.Is(err, ErrInvalidInput):
		f.Code, f.Message = CodeInvalidInput, err.Error()
	case errors.Is(err, ErrRequestTimeout):
		f.Code, f.Message = CodeRequestTimeout, err.Error()
	case errors.Is(err, ErrCanceled):
		f.Code, f.Message = CodeCanceled, err.Error()
	case errors.Is(err, ErrNotFound):
		f.Code, f.Message = CodeNotFound, err.Error()
	}
	return Envelope{SchemaVersion: SchemaVersion, Kind: KindFailure, Failure: f}
}

// AnalyzeEnvelope runs Analyze and wraps the outcome.
func (e *Engine) AnalyzeEnvelope(ctx context.Context, req Request) Envelope {
	a, err := e.Analyze(ctx, req)
	if err != nil {
		return FailureFrom(err)
	}
	return Success(a)
}
