package sync

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies aggregation failures
type ErrorKind string

const (
	// ErrorKindStoreFailure indicates one of the fan-out queries failed.
	// A partial fan-out failure fails the whole aggregate rather than
	// silently zeroing the missing count.
	ErrorKindStoreFailure ErrorKind = "store_failure"
	// ErrorKindTimeout indicates the computation exceeded its deadline
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindMissingTenant indicates the caller passed no tenant ID
	ErrorKindMissingTenant ErrorKind = "missing_tenant"
)

// AggregationError is a typed failure from aggregate computation,
// letting callers distinguish retryable from fatal cases.
type AggregationError struct {
	Kind     ErrorKind
	TenantID uuid.UUID
	Cause    error
}

// Error implements the error interface
func (e *AggregationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("aggregation failed (%s) for tenant %s: %v", e.Kind, e.TenantID, e.Cause)
	}
	return fmt.Sprintf("aggregation failed (%s) for tenant %s", e.Kind, e.TenantID)
}

// Unwrap returns the underlying cause
func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether a retry may succeed
func (e *AggregationError) Retryable() bool {
	return e.Kind == ErrorKindStoreFailure || e.Kind == ErrorKindTimeout
}

func newAggregationError(kind ErrorKind, tenantID uuid.UUID, cause error) *AggregationError {
	return &AggregationError{Kind: kind, TenantID: tenantID, Cause: cause}
}
