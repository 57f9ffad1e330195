// Package output selects how command results are written: the plain text
// views, or YAML and JSON for scripts and agents.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the default human-readable output
	FormatText Format = "text"

	// FormatYAML is the self-documenting YAML output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"
)

// DefaultFormat is the default output format when none is specified.
const DefaultFormat = FormatText

// ParseFormat parses a format string into a Format value.
// Accepts: "text", "yaml", "json" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected text, yaml, or json)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsStructured reports whether the format goes through a Formatter.
func (f Format) IsStructured() bool {
	return f == FormatYAML || f == FormatJSON
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatText, FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}
