package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. zerr links contribute their own
// message and metadata; the first standard error ends the walk with its full text.
// Links without a message only carry metadata, which moves to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		meta := m.Metadata()
		if m.Message() == "" {
			if len(meta) > 0 {
				if pending == nil {
					pending = make(map[string]any, len(meta))
				}
				maps.Copy(pending, meta)
			}
			current = errors.Unwrap(current)
			continue
		}

		if pending != nil {
			maps.Copy(meta, pending)
			pending = nil
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as a headline plus an indented cause list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, formatMetadata(entry.Metadata, "       ")...)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, formatMetadata(entry.Metadata, "      ")...)
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any, indent string) []string {
	keys := slices.Sorted(maps.Keys(meta))
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, meta[k]))
	}
	return lines
}
