package engine

import "github.com/danieljhkim/disko/internal/evaluator"

// ApplyRequest represents a request to plan one of the apply modes.
type ApplyRequest struct {
	// Mode is the apply mode, e.g. "format,mount"
	Mode string

	// Source is the disko file or flake holding the target configuration
	Source evaluator.Source
}

// GenerateRequest represents a request to describe the current machine.
type GenerateRequest struct {
	// Output is an optional file to write the configuration to. The format
	// follows the extension: .yaml/.yml for YAML, JSON otherwise.
	Output string
}
