package loghandler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// PrettyFormatter renders records as a colored, human-oriented single line
// when writing to a terminal, falling back to a plain "level message k=v..."
// line otherwise.
type PrettyFormatter struct {
	color   bool
	verbose bool
}

// NewPrettyFormatter returns a formatter that colors output only when color
// is true (the caller decides this from an isatty check).
func NewPrettyFormatter(color bool) *PrettyFormatter {
	return &PrettyFormatter{color: color}
}

// SetVerbose records the verbose setting. Format prints a record's
// attributes whenever it has any, so the setting does not change the output.
func (f *PrettyFormatter) SetVerbose(v bool) { f.verbose = v }

var levelColor = map[slog.Level]string{
	slog.LevelDebug: "\x1b[90m",
	slog.LevelInfo:  "\x1b[36m",
	slog.LevelWarn:  "\x1b[33m",
	slog.LevelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

// Format implements [Formatter].
func (f *PrettyFormatter) Format(w io.Writer, r slog.Record, group string) error {
	var b strings.Builder

	level := levelTag(r.Level)
	if f.color {
		b.WriteString(levelColor[r.Level])
		b.WriteString(level)
		b.WriteString(colorReset)
	} else {
		b.WriteString(level)
	}

	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteString(": ")
	}
	b.WriteString(r.Message)

	if f.verbose || r.NumAttrs() > 0 {
		r.Attrs(func(a slog.Attr) bool {
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
			return true
		})
	}

	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func levelTag(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
