package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Anirudha-Sai/Event-Attendance/config"
)

// ServiceName is attached to every log line
const ServiceName = "event-attendance"

// NewLogger builds the zap logger described by cfg
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zapCfg, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func buildConfig(cfg *config.LogConfig) (zap.Config, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zapCfg, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// scan and hod-action lines repeat verbatim during an event; sampling would drop audit entries
	zapCfg.Sampling = nil
	zapCfg.InitialFields = map[string]interface{}{"service": ServiceName}

	return zapCfg, nil
}
