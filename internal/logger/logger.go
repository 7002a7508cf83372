package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "catalog-admin"

// New creates the service logger writing to stdout. Production builds emit
// JSON at info level; everything else gets a coloured console at debug level.
func New(env string) (*zap.Logger, error) {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter builds the same logger as New around an arbitrary sink.
func NewWithWriter(env string, w io.Writer) (*zap.Logger, error) {
	sink := zapcore.Lock(zapcore.AddSync(w))

	var (
		encoder zapcore.Encoder
		level   zapcore.Level
	)
	if env == "production" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.MessageKey = "message"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
		level = zapcore.InfoLevel
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(encoder, sink, level)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	).With(zap.String("service", serviceName)), nil
}
