package analysis

import "fmt"

// ValidationError rejects a whole bulk request before any side effect. It
// reflects a caller contract violation, not a transient condition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("analysis: invalid request: %s: %s", e.Field, e.Reason)
}

// InsufficientCreditsError is returned by the advisory pre-flight balance
// check when the user cannot cover the requested batch.
type InsufficientCreditsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("analysis: insufficient credits: have %d, need %d", e.Balance, e.Required)
}
