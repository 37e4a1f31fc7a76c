package domain

// Result carries one stage or lookup outcome: a value, an error marker, or
// neither when the work never ran. Errors are data here, not control flow;
// a failed collaborator records its message and the run keeps going.
type Result[T any] struct {
	Value T      `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
	Done  bool   `json:"done"`
}

// Ok wraps a successful outcome.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value, Done: true}
}

// Fail records an error marker for a completed-but-failed outcome.
func Fail[T any](message string) Result[T] {
	return Result[T]{Err: message, Done: true}
}

// Pending is the zero outcome for work that has not run.
func Pending[T any]() Result[T] {
	return Result[T]{}
}

// OK reports whether the outcome completed without an error marker.
func (r Result[T]) OK() bool {
	return r.Done && r.Err == ""
}

// Failed reports whether the outcome completed with an error marker.
func (r Result[T]) Failed() bool {
	return r.Done && r.Err != ""
}
