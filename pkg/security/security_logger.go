package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventOriginRejected     EventType = "origin_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventRateLimitError     EventType = "rate_limit_error"
	EventHoneypotTriggered  EventType = "honeypot_triggered"
	EventSpamDetected       EventType = "spam_detected"
	EventValidationFailed   EventType = "validation_failed"
	EventSubmissionReceived EventType = "submission_received"
	EventDispatchSucceeded  EventType = "dispatch_succeeded"
	EventDispatchFailed     EventType = "dispatch_failed"
	EventServerError        EventType = "server_error"
)

// Severity represents the severity level of a security event.
// It is derived from EventType, never supplied by the caller.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

var EventSeverityMap = map[EventType]Severity{
	EventSubmissionReceived: SeverityINFO,
	EventDispatchSucceeded:  SeverityINFO,

	EventValidationFailed: SeverityMEDIUM,
	EventServerError:      SeverityMEDIUM,

	EventRateLimitTriggered: SeverityWARN,
	EventRateLimitError:     SeverityWARN,
	EventHoneypotTriggered:  SeverityWARN,
	EventSpamDetected:       SeverityWARN,

	EventOriginRejected: SeverityHIGH,
	EventDispatchFailed: SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM if unmapped.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	Form         string                 `json:"form,omitempty"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security and intake events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds the production zap pipeline writing to stdout.
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Set output to stdout for container environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fallback to a basic logger if config fails
		logger, _ = zap.NewProduction()
	}

	return NewSecurityLoggerWithZap(logger, serviceName, environment)
}

// NewSecurityLoggerWithZap wraps an existing zap logger.
func NewSecurityLoggerWithZap(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopLogger discards everything.
func NopLogger() *SecurityLogger {
	return NewSecurityLoggerWithZap(zap.NewNop(), "test", "test")
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	event.Severity = GetSeverity(event.Event)

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.Form != "" {
		fields = append(fields, zap.String("form", event.Form))
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(event.Severity.zapLevel(), string(event.Event), fields...)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, form, ip, userAgent, requestID string, retryAfter int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		Form:         form,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"retry_after": retryAfter},
	})
}

// LogOriginRejected logs a cross-origin submission attempt
func (sl *SecurityLogger) LogOriginRejected(ctx context.Context, origin, host, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventOriginRejected,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"origin": origin, "host": host},
	})
}

// LogSubmission logs an intake outcome without the submitter's raw PII
func (sl *SecurityLogger) LogSubmission(ctx context.Context, event EventType, form, email, requestID string, details map[string]interface{}) {
	ev := SecurityEvent{
		Event:     event,
		Form:      form,
		RequestID: requestID,
		Details:   details,
	}
	if email != "" {
		ev.SubjectType = "email"
		ev.SubjectValue = MaskEmail(email)
	}
	sl.Log(ctx, ev)
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex < 0 {
		return HashValue(email)
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

// Environment derives the environment name from GIN_MODE.
func Environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
