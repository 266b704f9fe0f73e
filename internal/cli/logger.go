package cli

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging for CLI tools. It writes to stderr only;
// stdout is reserved for command output. A nil *Logger discards everything.
type Logger struct {
	Verbose   bool
	DebugMode bool
	level     zap.AtomicLevel
	z         *zap.SugaredLogger
}

// NewLogger creates a logger writing to stderr.
func NewLogger(verbose, debug bool) *Logger {
	return NewLoggerTo(os.Stderr, verbose, debug, "")
}

// NewLoggerTo creates a logger writing to w. level, when non-empty, overrides
// the level derived from the verbose and debug switches.
func NewLoggerTo(w io.Writer, verbose, debug bool, level string) *Logger {
	lvl := zapcore.WarnLevel
	switch {
	case debug:
		lvl = zapcore.DebugLevel
	case verbose:
		lvl = zapcore.InfoLevel
	}
	if level != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
			lvl = parsed
		}
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	atom := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), atom)

	return &Logger{
		Verbose:   verbose || lvl <= zapcore.InfoLevel,
		DebugMode: debug || lvl <= zapcore.DebugLevel,
		level:     atom,
		z:         zap.New(core).Sugar(),
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	return &Logger{level: zap.NewAtomicLevel(), z: zap.NewNop().Sugar()}
}

// Raise lowers the level to info for verbose and to debug for debug. It
// never makes the logger quieter. Used once the command line is parsed.
func (l *Logger) Raise(verbose, debug bool) {
	if l == nil {
		return
	}
	want := l.level.Level()
	switch {
	case debug:
		want = zapcore.DebugLevel
	case verbose:
		want = zapcore.InfoLevel
	}
	if want < l.level.Level() {
		l.level.SetLevel(want)
	}
	l.Verbose = l.Verbose || verbose || debug
	l.DebugMode = l.DebugMode || debug
}

// With returns a child logger carrying the key/value pair on every entry.
func (l *Logger) With(key string, value interface{}) *Logger {
	if l == nil {
		return nil
	}
	c := *l
	c.z = l.z.With(key, value)
	return &c
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.z.Infof(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.z.Debugf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.z.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.z.Errorf(format, args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.z.Sync()
}
