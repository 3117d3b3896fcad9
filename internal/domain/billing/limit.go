package billing

import (
	"fmt"
	"net/http"
)

// LimitedResource identifies a resource whose creation is bounded by the
// business's package tier.
type LimitedResource string

const (
	ResourceProperty LimitedResource = "property"
	ResourceUnit     LimitedResource = "unit"
	ResourceTenant   LimitedResource = "tenant"
)

// IsValid returns true if the resource is valid
func (r LimitedResource) IsValid() bool {
	switch r {
	case ResourceProperty, ResourceUnit, ResourceTenant:
		return true
	}
	return false
}

// String returns the string representation of LimitedResource
func (r LimitedResource) String() string {
	return string(r)
}

// LimitReachedError is returned when a business has no remaining capacity
// for a resource under its package tier. Its message keeps the historical
// "LIMIT_REACHED:<resource>" prefix that clients pattern-match for upgrade
// prompts; new code should match the type with errors.As instead.
type LimitReachedError struct {
	Resource LimitedResource
	Limit    int
	Current  int64
}

// Error implements the error interface
func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("LIMIT_REACHED:%s: %d of %d used", e.Resource, e.Current, e.Limit)
}

// HTTPStatusCode returns the HTTP status code for this error (429 Too Many Requests)
func (e *LimitReachedError) HTTPStatusCode() int {
	return http.StatusTooManyRequests
}

// NewLimitReachedError creates a new LimitReachedError
func NewLimitReachedError(resource LimitedResource, current int64, limit int) *LimitReachedError {
	return &LimitReachedError{
		Resource: resource,
		Limit:    limit,
		Current:  current,
	}
}
