package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/testforge/internal/ui/output"
	"go.trai.ch/testforge/internal/ui/style"
)

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// successPrefixes mark info lines that report a finished result.
var successPrefixes = []string{"Saved ", "Coverage report generated successfully"}

// Handle formats and outputs the log record.
// Phase banners are bold and saved results carry a check mark. Continuation
// lines of info and warning messages are indented under the first line;
// error chains come preformatted.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	body := strings.TrimLeft(r.Message, "\n")
	lead := r.Message[:len(r.Message)-len(body)]

	prefix := ""
	color := h.out.Color(string(style.Slate))
	bold := false
	indent := true

	switch {
	case r.Level >= slog.LevelError:
		prefix = style.Cross + " "
		color = h.out.Color(string(style.Red))
		indent = false
	case r.Level >= slog.LevelWarn:
		prefix = style.Warning + " "
		color = h.out.Color(string(style.Yellow))
	case style.IsBanner(body):
		color = h.out.Color(string(style.Iris))
		bold = true
	case hasAnyPrefix(body, successPrefixes):
		prefix = style.Check + " "
		color = h.out.Color(string(style.Green))
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})

	lines := strings.Split(body, "\n")
	if len(attrParts) > 0 {
		lines[0] += " " + strings.Join(attrParts, " ")
	}

	var b strings.Builder
	b.WriteString(lead)
	pad := ""
	if indent {
		pad = strings.Repeat(" ", len([]rune(prefix)))
	}
	for i, line := range lines {
		if i == 0 {
			line = prefix + line
		} else if line != "" {
			line = pad + line
		}
		styled := h.out.String(line).Foreground(color)
		if bold {
			styled = styled.Bold()
		}
		b.WriteString(styled.String())
		b.WriteString("\n")
	}

	_, err := h.out.WriteString(b.String())
	return err
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
