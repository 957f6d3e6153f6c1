package result

import "reflect"

// Process exit codes selected by Finalize.
const (
	ExitOK        = 0
	ExitUserError = 1
	ExitBug       = 2
)

// Renderer turns outcomes into operator-facing text.
type Renderer interface {
	RenderSuccess(value any, stage string, advisories []Message) string
	RenderError(err *Error) string
}

// ExitCode selects the process exit code for an error.
func ExitCode(err *Error) int {
	if err == nil {
		return ExitOK
	}
	if err.Severity() == SeverityBug {
		return ExitBug
	}
	return ExitUserError
}

// Finalize maps a result to an exit code and rendered text.
//
// A success carrying a non-trivial value without a stage label is converted
// into BUG_SUCCESS_WITHOUT_CONTEXT: every value reaching the operator must
// say where it came from.
func Finalize[T any](r Result[T], renderer Renderer) (int, string) {
	if r.err != nil {
		return ExitCode(r.err), renderer.RenderError(r.err)
	}

	var value any = r.value
	if r.stage == "" && !IsTrivial(value) {
		err := NewError(CodeBugSuccessWithoutContext, Details{"value": value}, "finalize result")
		return ExitCode(err), renderer.RenderError(err)
	}
	if IsTrivial(value) {
		value = nil
	}

	return ExitOK, renderer.RenderSuccess(value, r.stage, r.advisories)
}

// IsTrivial reports whether v is absent: nil, a nil pointer/map/slice or a
// zero value.
func IsTrivial(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
