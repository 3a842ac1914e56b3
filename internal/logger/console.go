package logger

import (
	"context"

	"Bookstore_API/internal/models"
	"go.uber.org/zap"
)

// ConsoleLogger implements the Service interface on a zap logger
type ConsoleLogger struct {
	log *zap.Logger
}

// NewConsoleLogger creates a logger that writes structured lines through zap
func NewConsoleLogger(log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsoleLogger{log: log}
}

// NewZap builds the process zap logger; development mode gives readable console output
func NewZap(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (l *ConsoleLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	writeZap(l.log, newEntry(ctx, "", operation, "", message, nil, metadata))
}

func (l *ConsoleLogger) LogSuccess(ctx context.Context, operation, targetName, message string, metadata map[string]interface{}) {
	writeZap(l.log, newEntry(ctx, "", operation, targetName, message, nil, metadata))
}

func (l *ConsoleLogger) LogError(ctx context.Context, operation, targetName, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	writeZap(l.log, newEntry(ctx, severity, operation, targetName, message, err, metadata))
}

// Close flushes buffered output
func (l *ConsoleLogger) Close() error {
	_ = l.log.Sync()
	return nil
}

// writeZap emits one entry; severity picks the zap level
func writeZap(log *zap.Logger, entry *models.LogEntry) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("process_id", entry.ProcessID),
		zap.String("process_type", string(entry.ProcessType)),
	}
	if entry.TargetName != "" {
		fields = append(fields, zap.String("target", entry.TargetName))
	}
	if entry.ClientIP != "" {
		fields = append(fields, zap.String("client_ip", entry.ClientIP))
	}
	if entry.UserID != "" {
		fields = append(fields, zap.String("user_id", entry.UserID))
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}
	if len(entry.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", entry.Metadata))
	}

	switch entry.Severity {
	case models.LogSeverityHigh:
		log.Error(entry.Message, fields...)
	case models.LogSeverityMedium, models.LogSeverityLow:
		fields = append(fields, zap.String("severity", string(entry.Severity)))
		log.Warn(entry.Message, fields...)
	default:
		log.Info(entry.Message, fields...)
	}
}
