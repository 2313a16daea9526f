package auditlogs

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service emits structured security events. Emit is fire-and-forget: it must
// never block and never fail the surrounding validation call.
type Service interface {
	Emit(event Event)
}

type service struct {
	enabled bool
	logger  *logrus.Logger
}

func NewService(logger *logrus.Logger, enabled bool) Service {
	return &service{
		enabled: enabled,
		logger:  logger,
	}
}

// NewJSONLogger returns a logger that writes one JSON line per event, the
// format the external audit sink ingests.
func NewJSONLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func (s *service) Emit(event Event) {
	if !s.enabled || s.logger == nil {
		return
	}
	// Logging failures are swallowed, not propagated.
	defer func() {
		_ = recover()
	}()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"category":   event.Category,
	}
	if event.Context.ThreadID != "" {
		fields["thread_id"] = event.Context.ThreadID
	}
	if event.Context.IPAddress != "" {
		fields["ip_address"] = event.Context.IPAddress
	}
	for key, value := range event.Detail {
		fields[key] = value
	}

	entry := s.logger.WithFields(fields)
	switch event.Severity {
	case SeverityError:
		entry.Error(event.Description)
	case SeverityWarning:
		entry.Warn(event.Description)
	default:
		entry.Info(event.Description)
	}
}

// NoopService discards every event. Used when auditing is disabled.
type NoopService struct{}

func (NoopService) Emit(Event) {}
