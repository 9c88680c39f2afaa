package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where a plugin logs. Stdout belongs to plugin output, so
// logs go to a rotating file and, when Verbose is set, to stderr.
type Options struct {
	Dir     string
	File    string
	Level   string
	Verbose bool
}

func NewLogger(opts Options) (*zap.Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}
	file := opts.File
	if file == "" {
		file = "probes.log"
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, file),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level)

	if opts.Verbose {
		console := zap.NewDevelopmentEncoderConfig()
		core = zapcore.NewTee(core,
			zapcore.NewCore(zapcore.NewConsoleEncoder(console), zapcore.Lock(os.Stderr), zapcore.DebugLevel))
	}
	return zap.New(core), nil
}
