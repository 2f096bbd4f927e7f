// Package logging provides centralized structured logging for primeswitch.
// It wraps zap.Logger with a shared atomic level that follows the
// verbosity requested on the command line, and optional file logging.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where log output goes.
type Config struct {
	Verbosity  Verbosity
	Stderr     io.Writer // defaults to os.Stderr
	FilePath   string    // optional rotating log file
	MaxSizeMB  int       // max size before rotation (in MB)
	MaxAge     int       // max age of rotated files (in days)
	MaxBackups int       // number of rotated backups to keep
	Compress   bool      // gzip compress rotated files
	Fields     []any     // key/value pairs attached to every record
}

// Level is the shared level of Log. Adjusting it in place reaches loggers
// handed out earlier.
var Level = zap.NewAtomicLevelAt(VerbWarn.Level())

// Log is the globally accessible sugared logger instance.
var Log *zap.SugaredLogger

// Init (re)builds Log from cfg.
func Init(cfg Config) error {
	var cores []zapcore.Core

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	Level.SetLevel(cfg.Verbosity.Level())

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(stderr), Level))

	if cfg.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, Level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Log = logger.Sugar().With(cfg.Fields...)
	return nil
}

func init() {
	_ = Init(Config{Verbosity: VerbWarn})
}
