package logging

import (
	"go.uber.org/zap/zapcore"
)

// Verbosity is the ordered message threshold chosen on the command line.
type Verbosity int

const (
	VerbNone Verbosity = iota
	VerbErr
	VerbWarn
	VerbInfo
	VerbDebug
	VerbAll
)

// Increase returns the next verbosity level. VerbAll is the ceiling.
func (v Verbosity) Increase() Verbosity {
	if v >= VerbAll {
		return VerbAll
	}
	return v + 1
}

// Level maps the verbosity onto a zap level. VerbNone maps above
// FatalLevel so that nothing is enabled.
func (v Verbosity) Level() zapcore.Level {
	switch {
	case v <= VerbNone:
		return zapcore.FatalLevel + 1
	case v == VerbErr:
		return zapcore.ErrorLevel
	case v == VerbWarn:
		return zapcore.WarnLevel
	case v == VerbInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (v Verbosity) String() string {
	switch {
	case v <= VerbNone:
		return "none"
	case v == VerbErr:
		return "error"
	case v == VerbWarn:
		return "warn"
	case v == VerbInfo:
		return "info"
	case v == VerbDebug:
		return "debug"
	default:
		return "all"
	}
}
