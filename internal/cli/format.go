package cli

import "github.com/fatih/color"

var errorColor = color.New(color.FgRed, color.Bold)

// formatError formats an error cobra reports before any command runs, such
// as an unknown flag.
func formatError(err error) string {
	return errorColor.Sprintf("error: %v", err)
}
