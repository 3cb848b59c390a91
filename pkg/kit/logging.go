package kit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 7
	logFileMaxAgeDays = 30
)

// NewLogger builds the production JSON logger. When file is non-empty the
// same entries are also written to a rotated log file.
func NewLogger(service, file string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)
	level := zap.NewAtomicLevelAt(zap.InfoLevel)

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level),
	}
	if file != "" {
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(newRotatingFile(file)), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).
		With(zap.String("service", service))
}

func newRotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
		LocalTime:  true,
	}
}
