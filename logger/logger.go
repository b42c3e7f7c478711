package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const timeFormat = "15:04:05"

var (
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	keyColor   = color.New(color.FgCyan)
)

// Setup installs a Handler writing to stdout as the default slog logger.
func Setup(level slog.Leveler, noColor bool) {
	color.NoColor = noColor
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level)))
}

// Handler is a slog.Handler that writes one colored line per record:
//
//	15:04:05 INFO  Giveaway started giveaway_id=123 winners=2
type Handler struct {
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
	mu     *sync.Mutex
}

// NewHandler creates a Handler writing records at or above level to w.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.prefix + attr.Key, Value: attr.Value})
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format(timeFormat))
	sb.WriteByte(' ')
	sb.WriteString(levelText(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	for _, attr := range h.attrs {
		writeAttr(&sb, "", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, h.prefix, attr)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := prefix
		if attr.Key != "" {
			group += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			writeAttr(sb, group, a)
		}
		return
	}

	sb.WriteByte(' ')
	sb.WriteString(keyColor.Sprint(prefix + attr.Key))
	sb.WriteByte('=')

	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\n\"") {
		value = fmt.Sprintf("%q", value)
	}
	sb.WriteString(value)
}

func levelText(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return errorColor.Sprint("ERROR")
	case level >= slog.LevelWarn:
		return warnColor.Sprint("WARN ")
	case level >= slog.LevelInfo:
		return infoColor.Sprint("INFO ")
	default:
		return debugColor.Sprint("DEBUG")
	}
}
