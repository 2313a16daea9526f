package auditlogs

// Severity of an audit event. Info events record normal operation, warning
// events record detections, error events record blocked requests.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Event struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Category    string                 `json:"category"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
	Detail      map[string]interface{} `json:"detail,omitempty"`
	Context     Context                `json:"context"`
}

type Context struct {
	ThreadID  string `json:"threadId,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}
