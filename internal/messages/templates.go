package messages

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/danieljhkim/disko/internal/result"
)

// Line is one labelled paragraph of a rendered message.
type Line struct {
	Kind Category
	Text string
}

type template func(t *Theme, d result.Details) []Line

var templates = map[result.Code]template{
	result.CodeMissingArguments:            missingArguments,
	result.CodeTooManyArguments:            tooManyArguments,
	result.CodeMissingMode:                 missingMode,
	result.CodeCommandFailed:               commandFailed,
	result.CodeEvalConfigFailed:            evalConfigFailed,
	result.CodeFileNotFound:                fileNotFound,
	result.CodeFlakeURINoAttr:              flakeURINoAttr,
	result.CodeInvalidSettings:             invalidSettings,
	result.CodeDuplicatedDiskDevices:       duplicatedDiskDevices,
	result.CodeDiskNotFound:                diskNotFound,
	result.CodeDiskTypeChangedNoDestroy:    diskTypeChanged,
	result.CodeFilesystemChangedNoDestroy:  filesystemChanged,
	result.CodeContentTypeChangedNoDestroy: contentTypeChanged,
	result.CodeUnsupportedPTType:           unsupportedPTType,
	result.CodeWriteFileFailed:             writeFileFailed,

	result.CodeBugSuccessWithoutContext:           successWithoutContext,
	result.CodeBugValidateConfigFailed:            validateConfigFailed,
	result.CodeBugUnsupportedDeviceContentType:    unsupportedDeviceContentType,
	result.CodeBugUnsupportedPartitionContentType: unsupportedPartitionContentType,
	result.CodeBugUnsupportedSubsystem:            unsupportedSubsystem,
	result.CodeBugEmptyActionSet:                  emptyActionSet,

	result.CodeWarnGeneratePartialFailure: generatePartialFailure,
}

// Lines renders the template registered for msg.Code. Codes without a
// template render as the bare code with its severity.
func Lines(t *Theme, msg result.Message) []Line {
	if tmpl, ok := templates[msg.Code]; ok {
		return tmpl(t, msg.Details)
	}

	kind := KindError
	switch {
	case msg.Code.IsWarning():
		kind = KindWarning
	case msg.Code.IsBug():
		kind = KindBug
	}
	return []Line{{kind, fmt.Sprintf("Unexpected %s.", t.Sprint(Invalid, string(msg.Code)))}}
}

func argumentsHelp(t *Theme) Line {
	return Line{KindHelp, fmt.Sprintf("Provide either %s as the second argument or %s/%s %s.",
		t.Sprint(Placeholder, "disko_file"),
		t.Sprint(Flag, "--flake"), t.Sprint(Flag, "-f"),
		t.Sprint(Placeholder, "flake-uri"),
	)}
}

func destructiveHelp(t *Theme, rest string) Line {
	return Line{KindHelp, fmt.Sprintf("Run `%s %s` to allow destructive changes,\n%s",
		t.Sprint(Command, "disko"), t.Sprint(Value, "destroy,format,mount"), rest)}
}

func missingArguments(t *Theme, _ result.Details) []Line {
	return []Line{{KindError, "Missing arguments!"}, argumentsHelp(t)}
}

func tooManyArguments(t *Theme, _ result.Details) []Line {
	return []Line{{KindError, "Too many arguments!"}, argumentsHelp(t)}
}

func missingMode(t *Theme, d result.Details) []Line {
	modes := strs(d, "valid_modes")
	items := make([]string, 0, len(modes))
	for _, m := range modes {
		items = append(items, "  - "+t.Sprint(Value, m))
	}
	return []Line{
		{KindError, "Missing mode!"},
		{KindHelp, "Allowed modes are:\n" + strings.Join(items, "\n")},
	}
}

func commandFailed(t *Theme, d result.Details) []Line {
	return []Line{{KindError, fmt.Sprintf("Command failed: %s\nExit code: %s\nstderr: %s",
		t.Sprint(Command, joined(d, "command", " ")),
		t.Sprint(Invalid, str(d, "exit_code")),
		str(d, "stderr"),
	)}}
}

func evalConfigFailed(t *Theme, d result.Details) []Line {
	return []Line{{KindError, fmt.Sprintf("Failed to evaluate disko config with args %s!\nStderr from %s:\n%s",
		t.Sprint(Invalid, str(d, "args")),
		t.Sprint(Command, "nix eval"),
		str(d, "stderr"),
	)}}
}

func fileNotFound(t *Theme, d result.Details) []Line {
	return []Line{{KindError, "File not found: " + t.Sprint(File, str(d, "path"))}}
}

func flakeURINoAttr(t *Theme, d result.Details) []Line {
	return []Line{
		{KindError, fmt.Sprintf("Flake URI %s has no attribute.", t.Sprint(Invalid, str(d, "flake_uri")))},
		{KindHelp, fmt.Sprintf("Append an attribute like %s to the flake URI.", t.Sprint(Value, "#")+t.Sprint(Placeholder, "foo"))},
	}
}

func invalidSettings(t *Theme, d result.Details) []Line {
	return []Line{
		{KindError, fmt.Sprintf("Settings file %s is invalid:\n%s", t.Sprint(File, str(d, "path")), str(d, "error"))},
		{KindHelp, fmt.Sprintf("Fix the file or point %s at another one.", t.Sprint(Flag, "DISKO_CONFIG"))},
	}
}

func duplicatedDiskDevices(t *Theme, d result.Details) []Line {
	devs := strs(d, "devices")
	sort.Strings(devs)
	return []Line{
		{KindError, "Your config sets the same device path for multiple disks!\nDevices: " + colorList(t, Value, devs)},
		{KindHelp, "The duplicates are:\n" + colorList(t, Invalid, strs(d, "duplicates"))},
	}
}

func diskNotFound(t *Theme, d result.Details) []Line {
	return []Line{
		{KindError, fmt.Sprintf("Device path %s (for disk %s) was not found!",
			t.Sprint(File, str(d, "device")), t.Sprint(Value, str(d, "disk")))},
		destructiveHelp(t, "or fix the disk's device path."),
	}
}

func diskTypeChanged(t *Theme, d result.Details) []Line {
	disk, oldType := t.Sprint(Value, str(d, "disk")), t.Sprint(Invalid, str(d, "old_type"))
	return []Line{
		{KindError, fmt.Sprintf("Disk %s (%s) changed type from %s to %s.\nNeed to destroy and recreate the disk, but the current mode does not allow it!",
			disk, t.Sprint(File, str(d, "device")), oldType, t.Sprint(Invalid, str(d, "new_type")))},
		destructiveHelp(t, fmt.Sprintf("or change %s's type back to %s to keep the data.", disk, oldType)),
	}
}

func filesystemChanged(t *Theme, d result.Details) []Line {
	oldFormat := t.Sprint(Invalid, str(d, "old_format"))
	return []Line{
		{KindError, fmt.Sprintf("Filesystem on device %s changed from %s to %s.\nNeed to destroy and recreate the filesystem, but the current mode does not allow it!",
			t.Sprint(File, str(d, "device")), oldFormat, t.Sprint(Invalid, str(d, "new_format")))},
		destructiveHelp(t, fmt.Sprintf("or change the filesystem back to %s to keep the data.", oldFormat)),
	}
}

func contentTypeChanged(t *Theme, d result.Details) []Line {
	oldType := t.Sprint(Invalid, str(d, "old_type"))
	return []Line{
		{KindError, fmt.Sprintf("Content of %s (name=%s) changed type from %s to %s.\nNeed to destroy and recreate the content, but the current mode does not allow it!",
			t.Sprint(File, str(d, "device")), t.Sprint(Value, str(d, "name")), oldType, t.Sprint(Invalid, str(d, "new_type")))},
		destructiveHelp(t, fmt.Sprintf("or change the content type back to %s to keep the data.", oldType)),
	}
}

func unsupportedPTType(t *Theme, d result.Details) []Line {
	return []Line{{KindError, fmt.Sprintf("Device %s has unsupported partition type %s!",
		t.Sprint(File, str(d, "device")), t.Sprint(Invalid, str(d, "pttype")))}}
}

func writeFileFailed(t *Theme, d result.Details) []Line {
	return []Line{{KindError, fmt.Sprintf("Failed to write %s:\n%s", t.Sprint(File, str(d, "path")), str(d, "error"))}}
}

func successWithoutContext(t *Theme, d result.Details) []Line {
	return []Line{{KindBug, "Success message without context!\nReturned value:\n" + pretty(d["value"])}}
}

func validateConfigFailed(t *Theme, d result.Details) []Line {
	return []Line{
		{KindInfo, "Evaluated configuration:\n" + pretty(d["config"])},
		{KindError, "Validation errors:\n" + strings.Join(strs(d, "errors"), "\n")},
		{KindBug, fmt.Sprintf("Configuration validation failed!\nMost likely, the schema of the tool is out-of-sync with the one in nix.\nThe %s and the %s are printed above.",
			t.Sprint(Invalid, "validation errors"), t.Sprint(Value, "evaluated configuration"))},
	}
}

func unsupportedDeviceContentType(t *Theme, d result.Details) []Line {
	return []Line{{KindBug, fmt.Sprintf("Configuration for device %s (name=%s) specifies unsupported\ndevice content type %s, which was not implemented yet!",
		t.Sprint(File, str(d, "device")), t.Sprint(Value, str(d, "name")), t.Sprint(Invalid, str(d, "type")))}}
}

func unsupportedPartitionContentType(t *Theme, d result.Details) []Line {
	return []Line{{KindBug, fmt.Sprintf("Configuration for partition %s (name=%s) specifies unsupported\npartition content type %s, which was not implemented yet!",
		t.Sprint(File, str(d, "device")), t.Sprint(Value, str(d, "name")), t.Sprint(Invalid, str(d, "type")))}}
}

func unsupportedSubsystem(t *Theme, d result.Details) []Line {
	return []Line{{KindBug, fmt.Sprintf("Configuration declares %s entries (%s), which are not implemented yet!",
		t.Sprint(Invalid, str(d, "subsystem")), colorList(t, Value, strs(d, "entries")))}}
}

func emptyActionSet(_ *Theme, _ result.Details) []Line {
	return []Line{{KindBug, "A plan was requested without any actions!"}}
}

func generatePartialFailure(t *Theme, d result.Details) []Line {
	kind := str(d, "kind")
	failed, successful := strs(d, "failed"), strs(d, "successful")

	var partial, onlyFailed, onlySuccessful []string
	for _, s := range successful {
		if slices.Contains(failed, s) {
			partial = append(partial, s)
		} else {
			onlySuccessful = append(onlySuccessful, s)
		}
	}
	for _, f := range failed {
		if !slices.Contains(partial, f) {
			onlyFailed = append(onlyFailed, f)
		}
	}

	return []Line{{KindWarning, fmt.Sprintf(
		"Successfully generated config for %s %ss of your setup, %s!\nFailed %ss: %s\nSuccessful %ss: %s\nPartially successful %ss: %s",
		t.Sprint(Em, "some"), kind, t.Sprint(EmWarn, "but not all"),
		kind, colorList(t, Invalid, onlyFailed),
		kind, colorList(t, Value, onlySuccessful),
		kind, colorList(t, EmWarn, partial),
	)}}
}

// str renders a detail value as text.
func str(d result.Details, key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []string, []any, map[string]any, map[string]string:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// strs renders a list-valued detail.
func strs(d result.Details, key string) []string {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}

func joined(d result.Details, key, sep string) string {
	if items := strs(d, key); len(items) > 0 {
		return strings.Join(items, sep)
	}
	return str(d, key)
}

func colorList(t *Theme, category Category, items []string) string {
	colored := make([]string, 0, len(items))
	for _, item := range items {
		colored = append(colored, t.Sprint(category, item))
	}
	return strings.Join(colored, ", ")
}

func pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
