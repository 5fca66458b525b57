package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiAmber = "\033[33m"
	ansiBlue  = "\033[34m"
	ansiGray  = "\033[90m"
	ansiCyan  = "\033[36m"
	ansiBold  = "\033[1m"
)

// PrettyHandler renders one line per record:
//
//	[2006-01-02 15:04:05] INFO  message key=value
//
// Colours are dropped when NO_COLOR is set.
type PrettyHandler struct {
	level  slog.Leveler
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	attrs  []slog.Attr
	color  bool
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var lvl slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		lvl = opts.Level
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return &PrettyHandler{level: lvl, w: w, mu: &sync.Mutex{}, color: !noColor}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	h.paint(&sb, ansiGray, "["+r.Time.Format(time.DateTime)+"]")
	sb.WriteByte(' ')
	h.paint(&sb, levelColor(r.Level)+ansiBold, fmt.Sprintf("%-5s", r.Level.String()))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, formatAttr(a, ""))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, formatAttr(a, h.prefix))
		return true
	})
	if len(attrs) > 0 {
		sb.WriteByte(' ')
		h.paint(&sb, ansiCyan, strings.Join(attrs, " "))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.prefix != "" {
		next.prefix = h.prefix + "." + name
	} else {
		next.prefix = name
	}
	return &next
}

func (h *PrettyHandler) paint(sb *strings.Builder, color, s string) {
	if h.color {
		sb.WriteString(color)
		sb.WriteString(s)
		sb.WriteString(ansiReset)
		return
	}
	sb.WriteString(s)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiAmber
	case level >= slog.LevelInfo:
		return ansiBlue
	default:
		return ansiGray
	}
}

func formatAttr(a slog.Attr, prefix string) string {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			s = fmt.Sprintf("%q", s)
		}
		return key + "=" + s
	case slog.KindTime:
		return key + "=" + v.Time().Format(time.RFC3339)
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, g := range v.Group() {
			parts = append(parts, formatAttr(g, ""))
		}
		return key + "={" + strings.Join(parts, " ") + "}"
	default:
		return key + "=" + fmt.Sprint(v.Any())
	}
}
