package logger

import (
	"fmt"

	"github.com/norvik-group/facility-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger per the logging configuration. The json
// format (and the production environment) get the structured production
// encoder; everything else gets the development console encoder.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	level := ParseLevel(cfg.Level)

	var zapCfg zap.Config
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a level string to a zap level, falling back to Info
// on anything unrecognized.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithRequest returns a logger annotated with request identifiers.
func WithRequest(logger *zap.Logger, requestID, method, path string) *zap.Logger {
	return logger.With(
		zap.String("requestId", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// WithUser returns a logger annotated with the acting user.
func WithUser(logger *zap.Logger, userID uint, email string) *zap.Logger {
	return logger.With(
		zap.Uint("userId", userID),
		zap.String("email", email),
	)
}
