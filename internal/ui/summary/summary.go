// Package summary renders the end-of-run report shown to the operator.
package summary

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/ui/output"
	"go.trai.ch/testforge/internal/ui/style"
)

const labelWidth = 11

const timingPrecision = time.Millisecond

// Render writes a bordered summary of r to w.
func Render(w io.Writer, r *domain.RunReport) error {
	if r == nil {
		return nil
	}

	re := lipgloss.NewRenderer(w, termenv.WithProfile(output.ColorProfile()))
	label := re.NewStyle().Foreground(style.Slate).Width(labelWidth)
	ok := re.NewStyle().Foreground(style.Green)
	bad := re.NewStyle().Foreground(style.Red)
	warn := re.NewStyle().Foreground(style.Yellow)

	var lines []string
	row := func(name, value string) {
		lines = append(lines, label.Render(name)+value)
	}

	row("run", r.RunID)
	row("sources", fmt.Sprintf("%d", r.Sources))
	if r.Generation != nil {
		row("generated", stageLine(r.Generation))
	}
	if r.Refinement != nil {
		row("refined", stageLine(r.Refinement))
	}
	for i := range r.Repairs {
		row(fmt.Sprintf("repair #%d", i+1), stageLine(&r.Repairs[i]))
	}

	switch r.State() {
	case domain.Done:
		row("build", ok.Render(fmt.Sprintf("%s done after %s", style.Check, attempts(r.Outcome.Attempts))))
	case domain.GaveUp:
		row("build", bad.Render(fmt.Sprintf("%s gave up after %s", style.Cross, attempts(r.Outcome.Attempts))))
	default:
		row("build", warn.Render(style.Warning+" not run"))
	}

	if r.Coverage != nil {
		icon, st := style.Check, ok
		if !r.Coverage.Succeeded {
			icon, st = style.Warning, warn
		}
		row("coverage", st.Render(icon+" "+r.Coverage.Message))
	}

	if len(r.Timings) > 0 {
		lines = append(lines, "", label.Render("timings"))
		for _, t := range r.Timings {
			mark := style.Dot
			if t.Failed {
				mark = bad.Render(style.Cross)
			}
			lines = append(lines, fmt.Sprintf("  %s %s %s", mark, t.Name, t.Duration.Round(timingPrecision)))
		}
	}

	box := re.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Iris).
		Padding(0, 1)

	_, err := fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
	return err
}

func stageLine(s *domain.StageReport) string {
	line := fmt.Sprintf("%d written", len(s.Produced))
	if len(s.Skipped) > 0 {
		line += fmt.Sprintf(", %d skipped (%s)", len(s.Skipped), strings.Join(s.Skipped, ", "))
	}
	return line
}

func attempts(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}
