package logging

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled logging and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	sugar   *zap.SugaredLogger
	Verbose bool
}

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

func New(writer io.Writer, verbose bool) Logger {
	return NewWithFormat(writer, verbose, FormatConsole)
}

func NewWithFormat(writer io.Writer, verbose bool, format Format) Logger {
	if writer == nil {
		return Logger{}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), level)
	return Logger{sugar: zap.New(core).Sugar(), Verbose: verbose}
}

func (l Logger) Infof(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if l.sugar == nil || !l.Verbose {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

func (l Logger) Sync() {
	if l.sugar != nil {
		_ = l.sugar.Sync()
	}
}
