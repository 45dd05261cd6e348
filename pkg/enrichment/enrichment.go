// Package enrichment models the outcome of a best-effort external lookup.
// A failed lookup never fails the surrounding operation; callers translate
// the outcome into stored sentinel values at the persistence boundary.
package enrichment

// Status classifies an enrichment outcome.
type Status int

const (
	// Succeeded means Value holds the lookup result.
	Succeeded Status = iota
	// Skipped means the lookup was not attempted, typically because the
	// backing service is not configured.
	Skipped
	// Failed means the lookup was attempted and did not produce a value.
	Failed
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a tagged enrichment outcome.
// Reason carries a short machine-readable cause for non-success outcomes.
type Result[T any] struct {
	Status Status
	Value  T
	Reason string
	Err    error
}

// Success wraps v as a successful result.
func Success[T any](v T) Result[T] {
	return Result[T]{Status: Succeeded, Value: v}
}

// Skip records a lookup that was not attempted.
func Skip[T any](reason string) Result[T] {
	return Result[T]{Status: Skipped, Reason: reason}
}

// Fail records a failed lookup.
func Fail[T any](reason string, err error) Result[T] {
	return Result[T]{Status: Failed, Reason: reason, Err: err}
}

// OK reports whether the lookup succeeded.
func (r Result[T]) OK() bool {
	return r.Status == Succeeded
}

// Or returns Value on success and fallback otherwise.
func (r Result[T]) Or(fallback T) T {
	if r.OK() {
		return r.Value
	}
	return fallback
}
