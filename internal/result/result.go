package result

// Result is the outcome of a pipeline stage: either a success carrying a
// value or a failure carrying an *Error, never both.
//
// The zero Result is a success without a stage label, which Finalize reports
// as a defect when it carries a value.
type Result[T any] struct {
	value      T
	stage      string
	advisories []Message
	err        *Error
}

// Ok creates a success. The stage describes what succeeded and is shown to
// the operator; advisories are non-fatal messages rendered before the value.
func Ok[T any](value T, stage string, advisories ...Message) Result[T] {
	return Result[T]{value: value, stage: stage, advisories: advisories}
}

// Fail creates a failure from an existing error. The error must not be nil.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		panic("result: Fail called with nil error")
	}
	return Result[T]{err: err}
}

// Failure creates a failure with a single message.
func Failure[T any](code Code, details Details, stage string) Result[T] {
	return Fail[T](NewError(code, details, stage))
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Unwrap returns the value and the error; exactly one of them is meaningful.
func (r Result[T]) Unwrap() (T, *Error) {
	return r.value, r.err
}

// Match calls onOk or onErr depending on the variant.
func (r Result[T]) Match(onOk func(value T, stage string), onErr func(err *Error)) {
	if r.err != nil {
		onErr(r.err)
		return
	}
	onOk(r.value, r.stage)
}

// Value returns the success value, or the zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil for a success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Stage returns the success stage label.
func (r Result[T]) Stage() string {
	return r.stage
}

// Advisories returns the advisory messages of a success.
func (r Result[T]) Advisories() []Message {
	return r.advisories
}

// WithAdvisories returns a copy of a success with extra advisories appended.
// Failures are returned unchanged.
func (r Result[T]) WithAdvisories(advisories ...Message) Result[T] {
	if r.err != nil || len(advisories) == 0 {
		return r
	}
	merged := make([]Message, 0, len(r.advisories)+len(advisories))
	merged = append(merged, r.advisories...)
	merged = append(merged, advisories...)
	r.advisories = merged
	return r
}

// Chain sequences two stages. A failure is returned unchanged without calling
// next; on success next receives the value and its result is returned with
// the advisories of r prepended.
func Chain[T, U any](r Result[T], next func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	out := next(r.value)
	if out.err != nil || len(r.advisories) == 0 {
		return out
	}
	merged := make([]Message, 0, len(r.advisories)+len(out.advisories))
	merged = append(merged, r.advisories...)
	merged = append(merged, out.advisories...)
	out.advisories = merged
	return out
}

// Map transforms the value of a success, keeping its stage and advisories.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Result[U]{value: fn(r.value), stage: r.stage, advisories: r.advisories}
}
