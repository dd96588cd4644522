// Package detector picks the log format for the current environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering format of log output.
type LogFormat int

const (
	// FormatAuto chooses the format from the environment.
	FormatAuto LogFormat = iota
	// FormatPretty renders colored, human-readable lines.
	FormatPretty
	// FormatJSON renders one JSON object per line.
	FormatJSON
)

// DetectEnvironment returns the recommended format based on the environment.
// Machine-readable output is chosen in CI when stdout is not a terminal.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int
	return detect(isTTY, os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	isCI := ci == "true" || ci == "1"
	if isCI && !isTTY {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the user's --log-format flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty", "text":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
