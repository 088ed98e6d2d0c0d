package api

// Result is the outcome of one backend call as seen by a view: either a
// value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Call runs fn and wraps its outcome.
func Call[T any](fn func() (T, error)) Result[T] {
	v, err := fn()
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Err: err}
	}
	return Result[T]{Value: v}
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Unauthorized reports whether the backend rejected the bearer token.
func (r Result[T]) Unauthorized() bool { return IsUnauthorized(r.Err) }

// Failure is the part of a Result the shell needs to apply the 401 policy.
type Failure interface {
	OK() bool
	Unauthorized() bool
}
