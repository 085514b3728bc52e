// Package recerrors provides sentinel and custom error types for the recommendation engine.
package recerrors

// ErrNoMoodSignal is the sentinel for "user has no mood history".
// It is the only error the orchestrator reports to the caller besides total source failure.
var ErrNoMoodSignal = &NoMoodSignalError{}

// NoMoodSignalError indicates a user has no mood signal to recommend against.
type NoMoodSignalError struct {
	UserID string
}

// NewNoMoodSignalError creates a NoMoodSignalError for the given user.
func NewNoMoodSignalError(userID string) *NoMoodSignalError {
	return &NoMoodSignalError{UserID: userID}
}

// Error implements the error interface.
func (e *NoMoodSignalError) Error() string {
	if e.UserID != "" {
		return "no mood signal found for user " + e.UserID
	}

	return "no mood signal found"
}

// Is implements the error interface for error comparison.
func (e *NoMoodSignalError) Is(target error) bool {
	_, ok := target.(*NoMoodSignalError)

	return ok
}

// ErrProvider is the sentinel for embedding provider failures (network, auth, quota).
var ErrProvider = &ProviderError{}

// ProviderError wraps a failure from the embedding provider. Recoverable; callers
// fall back or degrade rather than aborting the recommendation.
type ProviderError struct {
	Message string
	Err     error
}

// NewProviderError creates a ProviderError wrapping the underlying cause.
func NewProviderError(message string, err error) *ProviderError {
	return &ProviderError{Message: message, Err: err}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "embedding provider error"
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Err }

// Is implements the error interface for error comparison.
func (e *ProviderError) Is(target error) bool {
	_, ok := target.(*ProviderError)

	return ok
}

// ErrStore is the sentinel for vector store failures.
var ErrStore = &StoreError{}

// StoreError wraps a failure from the backing vector index. Recoverable; a failed
// vector query triggers keyword fallback and a failed upsert is best-effort only.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

// NewStoreError creates a StoreError for the given operation.
func NewStoreError(op, message string, err error) *StoreError {
	return &StoreError{Op: op, Message: message, Err: err}
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "vector store error"
	}

	if e.Op != "" {
		msg = e.Op + ": " + msg
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error { return e.Err }

// Is implements the error interface for error comparison.
func (e *StoreError) Is(target error) bool {
	_, ok := target.(*StoreError)

	return ok
}

// AdapterErrorKind classifies catalog adapter failures so the orchestrator can
// decide how to degrade (all kinds degrade to an empty bucket; the kind is for logs and tests).
type AdapterErrorKind string

// Catalog adapter failure kinds.
const (
	AdapterNotConfigured AdapterErrorKind = "not_configured"
	AdapterQuotaExceeded AdapterErrorKind = "quota_exceeded"
	AdapterForbidden     AdapterErrorKind = "forbidden"
	AdapterTransient     AdapterErrorKind = "transient"
)

// ErrAdapter is the sentinel for catalog search adapter failures.
var ErrAdapter = &AdapterError{}

// AdapterError wraps a failure from a catalog search adapter (missing credential,
// quota, authorization, transport). A failing adapter never aborts the pipeline.
type AdapterError struct {
	Adapter string
	Kind    AdapterErrorKind
	Err     error
}

// NewAdapterError creates an AdapterError of the given kind.
func NewAdapterError(adapter string, kind AdapterErrorKind, err error) *AdapterError {
	return &AdapterError{Adapter: adapter, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *AdapterError) Error() string {
	msg := "catalog adapter error"
	if e.Adapter != "" {
		msg = e.Adapter + " adapter error"
	}

	if e.Kind != "" {
		msg += " (" + string(e.Kind) + ")"
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *AdapterError) Unwrap() error { return e.Err }

// Is implements the error interface for error comparison.
func (e *AdapterError) Is(target error) bool {
	t, ok := target.(*AdapterError)
	if !ok {
		return false
	}

	// The bare sentinel matches any adapter error; a kinded target matches only that kind.
	return t.Kind == "" || t.Kind == e.Kind
}

// ErrAllSourcesFailed is the sentinel for "every recommendation source failed".
var ErrAllSourcesFailed = &AllSourcesFailedError{}

// AllSourcesFailedError indicates the vector store and both catalog adapters all
// failed hard in one invocation. Distinct from NoMoodSignalError: the user has
// mood history, but no source is currently available.
type AllSourcesFailedError struct{}

// Error implements the error interface.
func (e *AllSourcesFailedError) Error() string {
	return "all recommendation sources are currently unavailable"
}

// Is implements the error interface for error comparison.
func (e *AllSourcesFailedError) Is(target error) bool {
	_, ok := target.(*AllSourcesFailedError)

	return ok
}
