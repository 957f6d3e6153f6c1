package result

import "strings"

// Code is a machine-readable message code. The prefix selects the namespace:
// ERR_ for user errors, BUG_ for internal defects, WARN_ for advisories.
type Code string

// User errors.
const (
	CodeMissingArguments            Code = "ERR_MISSING_ARGUMENTS"
	CodeTooManyArguments            Code = "ERR_TOO_MANY_ARGUMENTS"
	CodeMissingMode                 Code = "ERR_MISSING_MODE"
	CodeCommandFailed               Code = "ERR_COMMAND_FAILED"
	CodeEvalConfigFailed            Code = "ERR_EVAL_CONFIG_FAILED"
	CodeFileNotFound                Code = "ERR_FILE_NOT_FOUND"
	CodeFlakeURINoAttr              Code = "ERR_FLAKE_URI_NO_ATTR"
	CodeInvalidSettings             Code = "ERR_INVALID_SETTINGS"
	CodeDuplicatedDiskDevices       Code = "ERR_DUPLICATED_DISK_DEVICES"
	CodeDiskNotFound                Code = "ERR_DISK_NOT_FOUND"
	CodeDiskTypeChangedNoDestroy    Code = "ERR_DISK_TYPE_CHANGED_NO_DESTROY"
	CodeFilesystemChangedNoDestroy  Code = "ERR_FILESYSTEM_CHANGED_NO_DESTROY"
	CodeContentTypeChangedNoDestroy Code = "ERR_CONTENT_TYPE_CHANGED_NO_DESTROY"
	CodeUnsupportedPTType           Code = "ERR_UNSUPPORTED_PTTYPE"
	CodeWriteFileFailed             Code = "ERR_WRITE_FILE_FAILED"
)

// Internal defects.
const (
	CodeBugSuccessWithoutContext           Code = "BUG_SUCCESS_WITHOUT_CONTEXT"
	CodeBugValidateConfigFailed            Code = "BUG_VALIDATE_CONFIG_FAILED"
	CodeBugUnsupportedDeviceContentType    Code = "BUG_UNSUPPORTED_DEVICE_CONTENT_TYPE"
	CodeBugUnsupportedPartitionContentType Code = "BUG_UNSUPPORTED_PARTITION_CONTENT_TYPE"
	CodeBugUnsupportedSubsystem            Code = "BUG_UNSUPPORTED_SUBSYSTEM"
	CodeBugEmptyActionSet                  Code = "BUG_EMPTY_ACTION_SET"
)

// Advisories.
const (
	CodeWarnGeneratePartialFailure Code = "WARN_GENERATE_PARTIAL_FAILURE"
)

// Severity classifies a failure.
type Severity int

const (
	// SeverityUserError is actionable by the operator.
	SeverityUserError Severity = iota
	// SeverityBug signals an internal inconsistency.
	SeverityBug
)

func (s Severity) String() string {
	switch s {
	case SeverityUserError:
		return "user-error"
	case SeverityBug:
		return "bug"
	default:
		return "unknown"
	}
}

// Severity derives the classification from the code namespace. Codes outside
// the ERR_ and WARN_ namespaces are treated as bugs: an unknown code reaching
// the operator is itself a defect.
func (c Code) Severity() Severity {
	if strings.HasPrefix(string(c), "ERR_") || strings.HasPrefix(string(c), "WARN_") {
		return SeverityUserError
	}
	return SeverityBug
}

// IsBug reports whether the code is classified as an internal defect.
func (c Code) IsBug() bool {
	return c.Severity() == SeverityBug
}

// IsWarning reports whether the code is an advisory.
func (c Code) IsWarning() bool {
	return strings.HasPrefix(string(c), "WARN_")
}
