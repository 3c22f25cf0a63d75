package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldContentID = "content_id"
	FieldRunID     = "run_id"
	FieldBatchID   = "batch_id"
	FieldComponent = "component"
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "completion_provider"
	// FieldModel is the structured log field key for the completion model identifier.
	FieldModel = "completion_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// WithComponent names the subsystem emitting the log lines.
func WithComponent(l *zap.Logger, name string) *zap.Logger {
	return WithFields(l, StringFields(StringField{Key: FieldComponent, Value: name})...)
}

// CompletionFields describes the completion provider and model. Empty values are
// dropped to keep entries compact.
func CompletionFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
