package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu       sync.Mutex
	logger   *slog.Logger
	out      io.Writer = os.Stderr
	minLevel           = new(slog.LevelVar)
)

func init() {
	// Errors only until SetLevel is called.
	minLevel.Set(slog.LevelError)
	rebuild()
}

func rebuild() {
	logger = slog.New(tint.NewHandler(out, &tint.Options{
		Level:      minLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(out),
	}))
}

// SetLevel changes the minimum level that is written.
func SetLevel(l Level) {
	minLevel.Set(toSlog(l))
}

// SetOutput redirects all log output to w. Color is only used when w is a
// terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

func Debug(msg string, kv ...any) {
	current().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	current().Info(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{tint.Err(err)}, kv...)
	current().Error(msg, extended...)
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
