package auditlogs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitLogsEvent(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := NewService(logger, true)

	svc.Emit(Event{
		Type:        EventTypeInjectionBlocked,
		Category:    CategoryInputValidation,
		Severity:    SeverityError,
		Description: "input blocked for prompt injection",
		Detail:      map[string]interface{}{"risk": "high"},
		Context:     Context{ThreadID: "t-9", IPAddress: "10.1.2.3"},
	})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "input blocked for prompt injection", entry.Message)
	assert.Equal(t, EventTypeInjectionBlocked, entry.Data["event_type"])
	assert.Equal(t, "t-9", entry.Data["thread_id"])
	assert.Equal(t, "10.1.2.3", entry.Data["ip_address"])
	assert.Equal(t, "high", entry.Data["risk"])
	assert.NotEmpty(t, entry.Data["event_id"])
}

func TestEmitSeverityMapping(t *testing.T) {
	tests := []struct {
		severity Severity
		level    logrus.Level
	}{
		{SeverityInfo, logrus.InfoLevel},
		{SeverityWarning, logrus.WarnLevel},
		{SeverityError, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			NewService(logger, true).Emit(Event{
				Type:     EventTypePIIDetected,
				Severity: tt.severity,
			})
			require.Len(t, hook.Entries, 1)
			assert.Equal(t, tt.level, hook.LastEntry().Level)
		})
	}
}

func TestEmitPreservesProvidedID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	NewService(logger, true).Emit(Event{ID: "fixed-id", Type: EventTypeBiasDetected})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "fixed-id", hook.LastEntry().Data["event_id"])
}

func TestEmitDisabled(t *testing.T) {
	logger, hook := test.NewNullLogger()
	NewService(logger, false).Emit(Event{Type: EventTypePIIDetected})
	assert.Empty(t, hook.Entries)
}

func TestEmitNilLogger(t *testing.T) {
	// Must not panic.
	NewService(nil, true).Emit(Event{Type: EventTypePIIDetected})
	NoopService{}.Emit(Event{Type: EventTypePIIDetected})
}

func TestNewJSONLogger(t *testing.T) {
	logger := NewJSONLogger()
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
