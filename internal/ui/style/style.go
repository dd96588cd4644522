// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "•"
)

const bannerRule = "========"

// Banner formats a phase heading.
func Banner(title string) string {
	return bannerRule + " " + strings.ToUpper(title) + " " + bannerRule
}

// IsBanner reports whether line is a phase heading made by Banner.
func IsBanner(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 2*len(bannerRule)+3 &&
		strings.HasPrefix(line, bannerRule+" ") &&
		strings.HasSuffix(line, " "+bannerRule)
}
