package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventRoleModified       EventType = "role_modified"
	EventDataExport         EventType = "data_export"
	EventInvalidToken       EventType = "invalid_token"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp time.Time
	Event     EventType
	Principal string // hashed before it reaches the log
	IP        string
	RequestID string
	Details   map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries, separate
// from the application log so they can be shipped to a different sink.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds a production zap logger writing JSON to stdout.
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithLogger(logger, serviceName, environment)
}

// NewWithLogger wraps an existing zap logger.
func NewWithLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// Nop discards every event.
func Nop() *SecurityLogger {
	return NewWithLogger(zap.NewNop(), "", "")
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.WarnLevel
	switch event.Event {
	case EventRoleModified, EventDataExport:
		level = zapcore.InfoLevel
	case EventUnauthorizedAccess:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.Principal != "" {
		fields = append(fields, zap.String("principal_hash", HashValue(event.Principal)))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogUnauthorized records a call refused by the role gate.
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, principal, ip, requestID, path string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		Principal: principal,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"path": path},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventRateLimitTriggered,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"endpoint": endpoint},
	})
}

// LogRoleModified logs a successful role assignment.
func (sl *SecurityLogger) LogRoleModified(ctx context.Context, assigner, target, role string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventRoleModified,
		Principal: assigner,
		Details:   map[string]interface{}{"target_hash": HashValue(target), "role": role},
	})
}

// LogDataExport logs a candidate export by an admin.
func (sl *SecurityLogger) LogDataExport(ctx context.Context, principal, format string, rows int) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventDataExport,
		Principal: principal,
		Details:   map[string]interface{}{"format": format, "rows": rows},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
