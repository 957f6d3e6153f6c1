package result

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct{}

func (stubRenderer) RenderSuccess(value any, stage string, advisories []Message) string {
	var b strings.Builder
	for _, adv := range advisories {
		b.WriteString(string(adv.Code) + ";")
	}
	if value != nil {
		b.WriteString("value")
	}
	return b.String()
}

func (stubRenderer) RenderError(err *Error) string {
	return err.Error()
}

func TestCodeSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeMissingArguments, SeverityUserError},
		{CodeTooManyArguments, SeverityUserError},
		{CodeMissingMode, SeverityUserError},
		{CodeWarnGeneratePartialFailure, SeverityUserError},
		{CodeBugSuccessWithoutContext, SeverityBug},
		{CodeBugValidateConfigFailed, SeverityBug},
		{CodeBugUnsupportedDeviceContentType, SeverityBug},
		{CodeBugUnsupportedPartitionContentType, SeverityBug},
		{Code("SOMETHING_ELSE"), SeverityBug},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Severity())
		})
	}
}

func TestError_SeverityIsBugIfAnyMessageIsBug(t *testing.T) {
	err := Collect("generate disk plan")
	err.Append(CodeDuplicatedDiskDevices, nil)
	assert.Equal(t, SeverityUserError, err.Severity())

	err.Append(CodeBugUnsupportedDeviceContentType, Details{"type": "table"})
	assert.Equal(t, SeverityBug, err.Severity())
	assert.Equal(t, CodeDuplicatedDiskDevices, err.Code())
	assert.Equal(t, 2, err.Len())

	msg, ok := err.Find(CodeBugUnsupportedDeviceContentType)
	require.True(t, ok)
	assert.Equal(t, "table", msg.Details["type"])
}

func TestError_WithStageCopies(t *testing.T) {
	orig := NewError(CodeMissingArguments, nil, "validate args")
	relabelled := orig.WithStage("evaluate config")

	assert.Equal(t, "validate args", orig.Stage)
	assert.Equal(t, "evaluate config", relabelled.Stage)
	assert.Equal(t, orig.Messages, relabelled.Messages)
	assert.EqualError(t, orig, "failed to validate args: ERR_MISSING_ARGUMENTS")
}

func TestChain_ShortCircuitsOnFailure(t *testing.T) {
	failed := Failure[int](CodeMissingMode, Details{"valid_modes": []string{"mount"}}, "select mode")

	called := false
	out := Chain(failed, func(v int) Result[string] {
		called = true
		return Ok("never", "unreachable")
	})

	assert.False(t, called)
	require.False(t, out.IsOk())
	assert.Same(t, failed.Err(), out.Err())
	assert.Equal(t, "select mode", out.Err().Stage)
}

func TestChain_SuccessThenFailureReturnsFailureUnchanged(t *testing.T) {
	want := NewError(CodeFileNotFound, Details{"path": "/nope"}, "evaluate disko_file")

	out := Chain(Ok(1, "select mode"), func(v int) Result[string] {
		return Fail[string](want)
	})

	assert.Same(t, want, out.Err())
	assert.Equal(t, Details{"path": "/nope"}, out.Err().Context())
}

func TestChain_CarriesAdvisories(t *testing.T) {
	first := Ok(2, "first", NewMessage(CodeWarnGeneratePartialFailure, nil))

	out := Chain(first, func(v int) Result[int] {
		return Ok(v*2, "second")
	})

	require.True(t, out.IsOk())
	assert.Equal(t, 4, out.Value())
	assert.Equal(t, "second", out.Stage())
	require.Len(t, out.Advisories(), 1)
	assert.Equal(t, CodeWarnGeneratePartialFailure, out.Advisories()[0].Code)
}

func TestMatch_CallsExactlyOneBranch(t *testing.T) {
	var okCalls, errCalls int
	Ok("x", "stage").Match(func(string, string) { okCalls++ }, func(*Error) { errCalls++ })
	Failure[string](CodeMissingMode, nil, "select mode").Match(func(string, string) { okCalls++ }, func(*Error) { errCalls++ })

	assert.Equal(t, 1, okCalls)
	assert.Equal(t, 1, errCalls)
}

func TestMap(t *testing.T) {
	out := Map(Ok(3, "count"), func(v int) string { return strings.Repeat("a", v) })
	assert.Equal(t, "aaa", out.Value())
	assert.Equal(t, "count", out.Stage())

	failed := Map(Failure[int](CodeMissingMode, nil, "select mode"), func(v int) string { return "" })
	assert.False(t, failed.IsOk())
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		contains string
		run      func() (int, string)
	}{
		{
			name:     "success with value",
			code:     ExitOK,
			contains: "value",
			run:      func() (int, string) { return Finalize(Ok(map[string]int{"a": 1}, "stage"), stubRenderer{}) },
		},
		{
			name: "success without value or stage",
			code: ExitOK,
			run:  func() (int, string) { return Finalize(Result[*int]{}, stubRenderer{}) },
		},
		{
			name:     "user error",
			code:     ExitUserError,
			contains: "ERR_MISSING_ARGUMENTS",
			run: func() (int, string) {
				return Finalize(Failure[int](CodeMissingArguments, nil, "validate args"), stubRenderer{})
			},
		},
		{
			name:     "bug",
			code:     ExitBug,
			contains: "BUG_VALIDATE_CONFIG_FAILED",
			run: func() (int, string) {
				return Finalize(Failure[int](CodeBugValidateConfigFailed, nil, "validate disko config"), stubRenderer{})
			},
		},
		{
			name:     "success without context",
			code:     ExitBug,
			contains: "BUG_SUCCESS_WITHOUT_CONTEXT",
			run:      func() (int, string) { return Finalize(Ok([]string{"x"}, ""), stubRenderer{}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, text := tt.run()
			assert.Equal(t, tt.code, code)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestIsTrivial(t *testing.T) {
	var nilPtr *int
	assert.True(t, IsTrivial(nil))
	assert.True(t, IsTrivial(nilPtr))
	assert.True(t, IsTrivial(""))
	assert.True(t, IsTrivial([]string{}))
	assert.True(t, IsTrivial(map[string]int{}))
	assert.False(t, IsTrivial("x"))
	assert.False(t, IsTrivial(&struct{}{}))
}

func TestFail_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { Fail[int](nil) })
}
