package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. With an empty filename, logs are
// written to stderr in console format. With a filename, JSON logs go
// through a size-capped rotating file so long download sessions do
// not fill the disk.
func New(level, filename string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if filename == "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		return cfg.Build()
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    20,
		MaxBackups: 3,
		MaxAge:     14,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, lvl)
	return zap.New(core), nil
}
