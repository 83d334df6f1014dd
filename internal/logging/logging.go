// Package logging builds the zap logger shared by the CLI, the plugin loader
// and the REPL.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown or empty names fall
// back to info.
func ParseLevel(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New returns a console logger writing "time - LEVEL - name - message" lines to w.
func New(level string, w io.Writer) *zap.Logger {
	enc := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core).Named("calc")
}
