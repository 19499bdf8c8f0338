package lsp

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Logger is the small leveled-logging surface the server and its
// transport wrapper need; cheddar-lsp supplies a stderr implementation
// since stdout is reserved for the JSON-RPC stream.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type stderrLogger struct {
	min level
	w   io.Writer
}

// NewLogger builds a Logger writing to w, filtered to minLevel
// ("debug", "info", "warn", or "error"; unrecognised values fall back
// to "info").
func NewLogger(minLevel string, w io.Writer) Logger {
	return &stderrLogger{min: parseLevel(minLevel), w: w}
}

func (l *stderrLogger) log(lv level, tag, format string, args ...any) {
	if lv < l.min {
		return
	}
	fmt.Fprintf(l.w, "%s [%s] %s\n", time.Now().Format("15:04:05.000"), tag, fmt.Sprintf(format, args...))
}

func (l *stderrLogger) Debugf(format string, args ...any) { l.log(levelDebug, "debug", format, args...) }
func (l *stderrLogger) Infof(format string, args ...any)  { l.log(levelInfo, "info", format, args...) }
func (l *stderrLogger) Warnf(format string, args ...any)  { l.log(levelWarn, "warn", format, args...) }
func (l *stderrLogger) Errorf(format string, args ...any) { l.log(levelError, "error", format, args...) }
func (l *stderrLogger) Fatalf(format string, args ...any) {
	l.log(levelError, "fatal", format, args...)
	os.Exit(1)
}
