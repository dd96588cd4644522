// Package sanitize cleans model answers before they are stored as tests.
package sanitize

import "strings"

const fence = "```"

// FenceStripper removes a markdown code fence that wraps the whole answer.
type FenceStripper struct{}

// NewFenceStripper creates a new FenceStripper.
func NewFenceStripper() *FenceStripper {
	return &FenceStripper{}
}

// Sanitize strips a matched opening and closing fence around text.
// Text without a matched pair is returned unchanged apart from surrounding
// whitespace.
func (FenceStripper) Sanitize(text string) string {
	trimmed := strings.TrimSpace(text)
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if !isOpeningFence(first) || last != fence {
		return trimmed
	}

	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// isOpeningFence accepts a fence optionally followed by a language tag.
func isOpeningFence(line string) bool {
	tag, ok := strings.CutPrefix(line, fence)
	if !ok {
		return false
	}
	return !strings.ContainsAny(tag, "` \t")
}
