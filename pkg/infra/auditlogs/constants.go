package auditlogs

const (
	EventTypeSizeLimitExceeded = "guardrails.size_limit_exceeded"
	EventTypeInjectionDetected = "guardrails.injection_detected"
	EventTypeInjectionBlocked  = "guardrails.injection_blocked"
	EventTypeUnsafeContent     = "guardrails.unsafe_content"
	EventTypePIIDetected       = "guardrails.pii_detected"
	EventTypeBiasDetected      = "guardrails.bias_detected"
	EventTypeUngroundedClaims  = "guardrails.ungrounded_claims"
	EventTypeOutputSanitized   = "guardrails.output_sanitized"
	EventTypeDetectorFailure   = "guardrails.detector_failure"
)

const (
	CategoryInputValidation  = "input_validation"
	CategoryOutputValidation = "output_validation"
)
