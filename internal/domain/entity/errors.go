// internal/domain/entity/errors.go
package entity

import "fmt"

// ProviderError is a transport-level or provider-reported lookup failure.
// Status code and response body travel with the error so the observability
// path sees them instead of an ad hoc print.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("flight provider returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is worth another attempt. Client
// errors are terminal: the request itself is wrong.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode >= 500
}
