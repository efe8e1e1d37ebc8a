package service

import (
	"errors"
	"fmt"
)

// ErrorKind tags the failure classes of the analysis pipeline
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration_error"
	KindDecoding      ErrorKind = "decoding_error"
	KindUpstream      ErrorKind = "upstream_service_error"
	KindInternal      ErrorKind = "internal_error"
)

var (
	ErrMissingCredential = errors.New("model service API key not configured")
	ErrMissingClient     = errors.New("model service client not set")
	ErrNotJSONObject     = errors.New("model response is not a JSON object")

	errTrailingData = errors.New("invalid character after top-level value")
)

// AnalysisError is the single error type returned by AnalysisService.Analyze.
// Boundary layers map Kind to their own representation.
type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func newAnalysisError(kind ErrorKind, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Err: err}
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case KindConfiguration:
		return fmt.Sprintf("configuration error: %v", e.Err)
	case KindDecoding:
		return fmt.Sprintf("failed to decode model response as JSON: %v", e.Err)
	case KindUpstream:
		return fmt.Sprintf("model service error: %v", e.Err)
	default:
		return fmt.Sprintf("internal server error: %v", e.Err)
	}
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an analysis error; any other non-nil error is internal
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Kind
	}
	return KindInternal
}
