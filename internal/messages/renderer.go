package messages

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/disko/internal/result"
)

// Format selects how success values are printed.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// labelWidth aligns continuation lines under the text of the first line.
const labelWidth = len("warning: ")

// Renderer implements result.Renderer.
type Renderer struct {
	theme   *Theme
	tracker string
	format  Format
}

// NewRenderer creates a Renderer. tracker is the repository URL bug reports
// link to.
func NewRenderer(theme *Theme, tracker string, format Format) *Renderer {
	if theme == nil {
		theme = NewTheme()
	}
	if format == "" {
		format = FormatYAML
	}
	return &Renderer{
		theme:   theme,
		tracker: strings.TrimRight(tracker, "/"),
		format:  format,
	}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// RenderError renders the failed stage, every message with its context and,
// if any message is a bug, instructions for reporting it.
func (r *Renderer) RenderError(err *result.Error) string {
	var b strings.Builder

	stage := err.Stage
	if stage == "" {
		stage = "run disko"
	}
	b.WriteString(r.theme.Sprintf(KindError, "Failed to %s!", stage))
	b.WriteString("\n")

	var bugs []result.Code
	for _, msg := range err.Messages {
		r.writeLines(&b, Lines(r.theme, msg))
		r.writeDetails(&b, msg.Details)
		if msg.Code.IsBug() && !slices.Contains(bugs, msg.Code) {
			bugs = append(bugs, msg.Code)
		}
	}

	for _, code := range bugs {
		r.writeLines(&b, []Line{r.bugHelp(code)})
	}

	return b.String()
}

// RenderSuccess renders advisories followed by the value. Strings are
// printed verbatim; everything else is serialized in the configured format.
func (r *Renderer) RenderSuccess(value any, _ string, advisories []result.Message) string {
	var b strings.Builder

	for _, msg := range advisories {
		r.writeLines(&b, Lines(r.theme, msg))
		r.writeDetails(&b, msg.Details)
	}

	if value == nil {
		return b.String()
	}

	if s, ok := value.(string); ok {
		b.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			b.WriteString("\n")
		}
		return b.String()
	}

	out, err := r.serialize(value)
	if err != nil {
		r.writeLines(&b, []Line{{KindBug, fmt.Sprintf("Failed to serialize result: %v", err)}})
		return b.String()
	}
	b.WriteString(out)
	return b.String()
}

func (r *Renderer) serialize(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	if r.format == FormatJSON {
		return string(data) + "\n", nil
	}

	// Round trip through JSON so YAML keys follow the json tags.
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Renderer) bugHelp(code result.Code) Line {
	search := fmt.Sprintf("%s/issues?q=%s", r.tracker, url.QueryEscape("is:issue "+string(code)))
	open := fmt.Sprintf("%s/issues/new?title=%s", r.tracker, url.QueryEscape(string(code)))
	return Line{KindHelp, fmt.Sprintf(
		"Please report this bug!\nFirst, check if it has already been reported at\n    %s\nIf not, open a new issue at\n    %s\nand include the full logs printed above!",
		r.theme.Sprint(File, search), r.theme.Sprint(File, open),
	)}
}

func (r *Renderer) writeLines(b *strings.Builder, lines []Line) {
	indent := strings.Repeat(" ", labelWidth)
	for _, line := range lines {
		label := string(line.Kind) + ":"
		b.WriteString(r.theme.Sprint(line.Kind, label))
		b.WriteString(strings.Repeat(" ", labelWidth-len(label)))
		b.WriteString(strings.ReplaceAll(line.Text, "\n", "\n"+indent))
		b.WriteString("\n")
	}
}

func (r *Renderer) writeDetails(b *strings.Builder, d result.Details) {
	if len(d) == 0 {
		return
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat(" ", labelWidth)
	for _, k := range keys {
		fmt.Fprintf(b, "%s%s %s\n", indent, r.theme.Sprint(KindDebug, k+":"), str(d, k))
	}
}
