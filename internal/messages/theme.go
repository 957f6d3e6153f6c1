// Package messages renders outcomes for the operator.
//
// Message text refers to semantic categories (a file path, an invalid
// value, an emphasized word) instead of concrete colors. A Theme maps each
// category to a color, so the palette can be changed from the settings file
// without touching any call site.
package messages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Category is a semantic text class.
type Category string

// Inline categories.
const (
	File        Category = "file"
	Invalid     Category = "invalid"
	Value       Category = "value"
	Em          Category = "em"
	EmWarn      Category = "em_warn"
	Command     Category = "command"
	Flag        Category = "flag"
	Placeholder Category = "placeholder"
)

// Message kinds. They label each rendered line.
const (
	KindError   Category = "error"
	KindWarning Category = "warning"
	KindHelp    Category = "help"
	KindInfo    Category = "info"
	KindBug     Category = "bug"
	KindDebug   Category = "debug"
)

var defaultPalette = map[Category][]color.Attribute{
	File:        {color.FgBlue},
	Invalid:     {color.FgRed},
	Value:       {color.FgGreen},
	Em:          {color.Bold},
	EmWarn:      {color.FgYellow, color.Bold},
	Command:     {color.FgCyan, color.Bold},
	Flag:        {color.FgMagenta},
	Placeholder: {color.Italic},

	KindError:   {color.FgRed, color.Bold},
	KindWarning: {color.FgYellow, color.Bold},
	KindHelp:    {color.FgGreen, color.Bold},
	KindInfo:    {color.FgBlue, color.Bold},
	KindBug:     {color.FgMagenta, color.Bold},
	KindDebug:   {color.FgHiBlack},
}

var attributeNames = map[string]color.Attribute{
	"black":      color.FgBlack,
	"red":        color.FgRed,
	"green":      color.FgGreen,
	"yellow":     color.FgYellow,
	"blue":       color.FgBlue,
	"magenta":    color.FgMagenta,
	"cyan":       color.FgCyan,
	"white":      color.FgWhite,
	"hi-black":   color.FgHiBlack,
	"hi-red":     color.FgHiRed,
	"hi-green":   color.FgHiGreen,
	"hi-yellow":  color.FgHiYellow,
	"hi-blue":    color.FgHiBlue,
	"hi-magenta": color.FgHiMagenta,
	"hi-cyan":    color.FgHiCyan,
	"hi-white":   color.FgHiWhite,
	"bold":       color.Bold,
	"faint":      color.Faint,
	"italic":     color.Italic,
	"underline":  color.Underline,
}

// Theme maps categories to colors.
type Theme struct {
	colors  map[Category]*color.Color
	enabled *bool
}

// NewTheme returns the default palette. Colors follow fatih/color's terminal
// detection until SetEnabled is called.
func NewTheme() *Theme {
	t := &Theme{colors: make(map[Category]*color.Color, len(defaultPalette))}
	for category, attrs := range defaultPalette {
		t.colors[category] = color.New(attrs...)
	}
	return t
}

// PlainTheme returns a theme that never emits escape codes.
func PlainTheme() *Theme {
	t := NewTheme()
	t.SetEnabled(false)
	return t
}

// SetEnabled forces colors on or off regardless of the terminal.
func (t *Theme) SetEnabled(enabled bool) {
	t.enabled = &enabled
	for _, c := range t.colors {
		t.apply(c)
	}
}

func (t *Theme) apply(c *color.Color) {
	if t.enabled == nil {
		return
	}
	if *t.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Override replaces the colors of the named categories. Each value is a
// space separated list of attribute names, e.g. "bold hi-red".
func (t *Theme) Override(overrides map[string]string) error {
	for name, spec := range overrides {
		category := Category(name)
		if _, ok := defaultPalette[category]; !ok {
			return fmt.Errorf("unknown theme category %q", name)
		}

		var attrs []color.Attribute
		for _, field := range strings.Fields(strings.ToLower(spec)) {
			attr, ok := attributeNames[field]
			if !ok {
				return fmt.Errorf("unknown color %q for theme category %q", field, name)
			}
			attrs = append(attrs, attr)
		}

		c := color.New(attrs...)
		t.apply(c)
		t.colors[category] = c
	}
	return nil
}

// Sprint colors s as category.
func (t *Theme) Sprint(category Category, s string) string {
	c, ok := t.colors[category]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

// Sprintf formats according to format and colors the result as category.
func (t *Theme) Sprintf(category Category, format string, args ...any) string {
	return t.Sprint(category, fmt.Sprintf(format, args...))
}

// Categories returns every known category in name order.
func (t *Theme) Categories() []Category {
	out := make([]Category, 0, len(t.colors))
	for category := range t.colors {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Swatches renders every category name in its own color, one per line.
func (t *Theme) Swatches() string {
	var b strings.Builder
	for _, category := range t.Categories() {
		fmt.Fprintf(&b, "%20s %s\n", category, t.Sprint(category, string(category)))
	}
	return b.String()
}
