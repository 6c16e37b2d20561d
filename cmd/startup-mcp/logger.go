// ABOUTME: slog setup for startup-mcp: JSON output or a colorized text handler
// ABOUTME: Redacts secrets, shows the component as a prefix, and flags failed tool calls

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/Prahants/mcp-startup-generator/internal/config"
)

const redacted = "[redacted]"

// sensitiveKeys never reach the log output with their real values.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"auth_token":    true,
	"jwt_secret":    true,
	"authorization": true,
	"phone":         true,
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				return redact(a)
			},
		}))
	}
	return slog.New(&colorHandler{sink: &sink{out: out}, level: level})
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redact(a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] && a.Value.String() != "" {
		return slog.String(a.Key, redacted)
	}
	return a
}

// sink serializes writes from a handler and everything derived from it.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, line)
	return err
}

// colorHandler prints "15:04:05 INF [component] message key=value". Attrs
// from With are rendered once when the derived handler is built.
type colorHandler struct {
	sink      *sink
	level     slog.Level
	component string
	prefix    string // group path, "" or "a.b."
	preset    string // rendered With attrs
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(color.HiBlackString(r.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')

	component := h.component
	var attrs strings.Builder
	attrs.WriteString(h.preset)
	failed := false
	r.Attrs(func(a slog.Attr) bool {
		switch {
		case h.prefix == "" && a.Key == "component":
			component = a.Value.String()
		case a.Key == "is_error" && a.Value.Kind() == slog.KindBool && a.Value.Bool():
			failed = true
			writeAttr(&attrs, h.prefix, a)
		default:
			writeAttr(&attrs, h.prefix, a)
		}
		return true
	})

	if component != "" {
		b.WriteString(color.BlueString("[" + component + "] "))
	}
	if failed {
		b.WriteString(color.RedString(r.Message))
	} else {
		b.WriteString(r.Message)
	}
	b.WriteString(attrs.String())
	b.WriteByte('\n')

	return h.sink.write(b.String())
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed, color.Bold).Sprint("ERR")
	case l >= slog.LevelWarn:
		return color.YellowString("WRN")
	case l >= slog.LevelInfo:
		return color.CyanString("INF")
	default:
		return color.MagentaString("DBG")
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a = redact(a)
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	v := a.Value.String()
	if strings.ContainsAny(v, " \t\n\"=") {
		v = strconv.Quote(v)
	}
	b.WriteString(color.HiBlackString(" " + prefix + a.Key + "="))
	b.WriteString(v)
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var b strings.Builder
	b.WriteString(h.preset)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == "component" {
			next.component = a.Value.String()
			continue
		}
		writeAttr(&b, h.prefix, a)
	}
	next.preset = b.String()
	return &next
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
