package common

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapOptions configures the zap-based structured logger.
type ZapOptions struct {
	// LogFile is the path to the log file. If empty, logs go to stdout.
	LogFile string

	// MaxSize is the maximum size in megabytes of the log file before it
	// gets rotated. Defaults to 100 megabytes.
	MaxSize int

	// MaxBackups is the maximum number of rotated log files to retain.
	MaxBackups int

	// MaxAge is the maximum number of days to retain rotated log files.
	MaxAge int

	// Compress gzips rotated log files when set.
	Compress bool

	// Debug enables debug-level logging. Info level otherwise.
	Debug bool

	// Console also writes to stdout when a LogFile is configured.
	Console bool
}

// NewZapLogger creates a Logger backed by uber-go/zap with optional
// lumberjack file rotation.
func NewZapLogger(opts ZapOptions) Logger {
	var ws zapcore.WriteSyncer
	if opts.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		if opts.Console {
			ws = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(lj))
		} else {
			ws = zapcore.AddSync(lj)
		}
	} else {
		ws = zapcore.AddSync(os.Stdout)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	return &zapAdapter{s: zap.New(core).Sugar()}
}

type zapAdapter struct {
	s *zap.SugaredLogger
}

func (z *zapAdapter) Debug(msg string, kv ...interface{}) { z.s.Debugw(msg, kv...) }
func (z *zapAdapter) Info(msg string, kv ...interface{})  { z.s.Infow(msg, kv...) }
func (z *zapAdapter) Warn(msg string, kv ...interface{})  { z.s.Warnw(msg, kv...) }
func (z *zapAdapter) Error(msg string, kv ...interface{}) { z.s.Errorw(msg, kv...) }
