package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/revlytics/revlytics/internal/config"
	"github.com/revlytics/revlytics/internal/types"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// Global logger for convenience
var L *Logger

// NewLogger creates and returns a new Logger instance
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapCfg := zap.NewProductionConfig()

	if cfg.Logging.Level == types.LogLevelDebug {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Disable stack traces for warnings to reduce log noise
	zapCfg.DisableStacktrace = true

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Initialize default logger and set it as global while also using Dependency Injection.
// The global is for scripts and init paths; everywhere else the injected instance is used.
func init() {
	L, _ = NewLogger(config.GetDefaultConfig())
}

func GetLogger() *Logger {
	if L == nil {
		L, _ = NewLogger(config.GetDefaultConfig())
	}
	return L
}

func GetLoggerWithContext(ctx context.Context) *Logger {
	return GetLogger().WithContext(ctx)
}

// WithContext returns a logger annotated with the request-scoped identifiers
func (l *Logger) WithContext(ctx context.Context) *Logger {
	requestID := types.GetRequestID(ctx)
	tenantID := types.GetTenantID(ctx)
	environmentID := types.GetEnvironmentID(ctx)

	return &Logger{
		SugaredLogger: l.SugaredLogger.With(
			"request_id", requestID,
			"tenant_id", tenantID,
			"environment_id", environmentID,
		),
	}
}

// ginLogger adapts our Logger to gin's logging interface
type ginLogger struct {
	logger *Logger
}

// GetGinLogger returns a gin-compatible logger
func (l *Logger) GetGinLogger() *ginLogger {
	return &ginLogger{logger: l}
}

// Write implements the io.Writer interface for gin
func (g *ginLogger) Write(p []byte) (n int, err error) {
	g.logger.Info(string(p))
	return len(p), nil
}
