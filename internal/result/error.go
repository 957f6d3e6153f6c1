package result

import (
	"fmt"
	"strings"
)

// Details is the free-form diagnostic data attached to a message.
type Details map[string]any

// Message is a single coded diagnostic.
type Message struct {
	Code    Code    `json:"code"`
	Details Details `json:"details,omitempty"`
}

// NewMessage creates a Message. A nil details map is replaced by an empty one.
func NewMessage(code Code, details Details) Message {
	if details == nil {
		details = Details{}
	}
	return Message{Code: code, Details: details}
}

// Error is the failure variant of a Result.
//
// An Error describes the stage that failed and one or more messages. Stages
// that validate several independent entities (all disks of a config, for
// example) collect every problem into a single Error before failing.
type Error struct {
	// Stage describes where the failure occurred, e.g. "validate args".
	Stage string `json:"stage"`

	// Messages holds the coded diagnostics, primary message first.
	Messages []Message `json:"messages"`
}

// NewError creates an Error with a single message.
func NewError(code Code, details Details, stage string) *Error {
	return &Error{
		Stage:    stage,
		Messages: []Message{NewMessage(code, details)},
	}
}

// Collect creates an empty Error for the given stage. Use Append or Extend to
// add messages and Len to check whether anything was collected.
func Collect(stage string) *Error {
	return &Error{Stage: stage, Messages: []Message{}}
}

// Code returns the code of the primary message.
func (e *Error) Code() Code {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0].Code
}

// Context returns the details of the primary message.
func (e *Error) Context() Details {
	if len(e.Messages) == 0 {
		return Details{}
	}
	return e.Messages[0].Details
}

// Severity is SeverityBug if any message is bug-classified.
func (e *Error) Severity() Severity {
	for _, msg := range e.Messages {
		if msg.Code.IsBug() {
			return SeverityBug
		}
	}
	return SeverityUserError
}

// Len returns the number of collected messages.
func (e *Error) Len() int {
	return len(e.Messages)
}

// Append adds a message.
func (e *Error) Append(code Code, details Details) {
	e.Messages = append(e.Messages, NewMessage(code, details))
}

// Extend adds all messages of another error, keeping this error's stage.
func (e *Error) Extend(other *Error) {
	if other == nil {
		return
	}
	e.Messages = append(e.Messages, other.Messages...)
}

// Find returns the first message with the given code.
func (e *Error) Find(code Code) (Message, bool) {
	for _, msg := range e.Messages {
		if msg.Code == code {
			return msg, true
		}
	}
	return Message{}, false
}

// WithStage returns a copy of the error relabelled with a new stage.
func (e *Error) WithStage(stage string) *Error {
	messages := make([]Message, len(e.Messages))
	copy(messages, e.Messages)
	return &Error{Stage: stage, Messages: messages}
}

// Error implements the error interface.
func (e *Error) Error() string {
	codes := make([]string, 0, len(e.Messages))
	for _, msg := range e.Messages {
		codes = append(codes, string(msg.Code))
	}
	return fmt.Sprintf("failed to %s: %s", e.Stage, strings.Join(codes, ", "))
}
