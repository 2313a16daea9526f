// Package guardrails composes the detectors into the two boundary calls the
// rest of the system uses: ValidateInput ahead of any LLM prompt, and
// ValidateOutput on generated content before it is persisted or shown.
package guardrails

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/resumegate/guardrails/pkg/guardrails/bias_detection"
	"github.com/resumegate/guardrails/pkg/guardrails/claim_grounding"
	"github.com/resumegate/guardrails/pkg/guardrails/content_safety"
	"github.com/resumegate/guardrails/pkg/guardrails/injection_detection"
	"github.com/resumegate/guardrails/pkg/guardrails/input_size"
	"github.com/resumegate/guardrails/pkg/guardrails/output_validation"
	"github.com/resumegate/guardrails/pkg/guardrails/pii_detection"
	"github.com/resumegate/guardrails/pkg/infra/auditlogs"
	"github.com/resumegate/guardrails/pkg/types"
)

// InputCategory selects which character ceiling applies to the text.
type InputCategory string

const (
	CategoryResume         InputCategory = "resume"
	CategoryJobDescription InputCategory = "job_description"
	CategoryUserAnswer     InputCategory = "user_answer"
)

type InputOptions struct {
	Category  InputCategory // defaults to CategoryResume
	ThreadID  string
	IPAddress string
	Config    *Config // defaults to DefaultConfig()
}

type OutputOptions struct {
	// SourceProfile is the candidate's own material; claim grounding runs
	// only when it is non-empty.
	SourceProfile string
	// SourceDiscoveries are achievement statements surfaced during the
	// discovery conversation, pooled with SourceProfile for grounding.
	SourceDiscoveries []string
	ThreadID          string
	Config            *Config
}

// Result is the bundle returned by ValidateOutput. Passed is false iff a
// blocking-severity condition was found; PII, low-confidence claims, and
// warn-severity bias never flip it on their own. The slice fields are always
// non-nil so the bundle marshals with empty arrays, never null.
type Result struct {
	Passed           bool                              `json:"passed"`
	Warnings         []string                          `json:"warnings"`
	BiasFlags        []bias_detection.Flag             `json:"bias_flags"`
	PIIWarnings      []pii_detection.Warning           `json:"pii_warnings"`
	UngroundedClaims []claim_grounding.UngroundedClaim `json:"ungrounded_claims"`
	Sanitized        bool                              `json:"sanitized"`
}

type Validator struct {
	logger *logrus.Logger
	audit  auditlogs.Service
}

func NewValidator(logger *logrus.Logger, audit auditlogs.Service) *Validator {
	if audit == nil {
		audit = auditlogs.NoopService{}
	}
	return &Validator{
		logger: logger,
		audit:  audit,
	}
}

// ValidateInput checks raw user-supplied text before it reaches an LLM
// prompt. On failure it returns a *types.ValidationError whose message is
// safe for a 400 response; detection details go only to the audit log. On
// success it returns non-blocking warnings.
func (v *Validator) ValidateInput(text string, opts InputOptions) ([]string, error) {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if cfg.InjectionBlockLevel <= injection_detection.RiskNone {
		cfg.InjectionBlockLevel = injection_detection.DefaultBlockThreshold
	}
	auditCtx := auditlogs.Context{ThreadID: opts.ThreadID, IPAddress: opts.IPAddress}

	if err := v.checkSize(text, opts.Category, cfg, auditCtx); err != nil {
		return nil, err
	}

	var warnings []string

	risk, matched := v.detectInjection(text, auditCtx)
	if risk > injection_detection.RiskNone {
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeInjectionDetected,
			Category:    auditlogs.CategoryInputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "prompt injection patterns detected in input",
			Detail: map[string]interface{}{
				"risk":     risk.String(),
				"patterns": matched,
			},
			Context: auditCtx,
		})
		if cfg.BlockInjections && risk >= cfg.InjectionBlockLevel {
			v.audit.Emit(auditlogs.Event{
				Type:        auditlogs.EventTypeInjectionBlocked,
				Category:    auditlogs.CategoryInputValidation,
				Severity:    auditlogs.SeverityError,
				Description: "input blocked for prompt injection",
				Detail:      map[string]interface{}{"risk": risk.String()},
				Context:     auditCtx,
			})
			return nil, &types.ValidationError{
				StatusCode: 400,
				Message:    "Input contains disallowed patterns. Please rephrase your request.",
				Err:        fmt.Errorf("injection risk %s at or above block level %s", risk, cfg.InjectionBlockLevel),
			}
		}
		warnings = append(warnings, fmt.Sprintf(
			"input matched %d suspicious pattern(s); proceeding with caution", len(matched)))
	}

	if cfg.BlockToxicContent {
		if err := v.checkSafety(text, auditCtx); err != nil {
			return nil, err
		}
	}

	// Input PII is logged, never blocked: users may paste identifiers they
	// intend to remove later.
	if matches := v.detectPII(text); len(matches) > 0 {
		entities := distinctEntities(matches)
		warnings = append(warnings, fmt.Sprintf(
			"input contains sensitive personal information (%v); it will not be included in generated content", entities))
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypePIIDetected,
			Category:    auditlogs.CategoryInputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "sensitive PII detected in input",
			Detail:      map[string]interface{}{"entities": entities},
			Context:     auditCtx,
		})
	}

	return warnings, nil
}

// ValidateOutput inspects LLM-generated content. It never fails: the content
// (sanitized when necessary) and the findings bundle are always returned,
// and the product decision belongs to the caller.
func (v *Validator) ValidateOutput(content string, opts OutputOptions) (string, *Result) {
	auditCtx := auditlogs.Context{ThreadID: opts.ThreadID}
	result := &Result{
		Passed:           true,
		Warnings:         []string{},
		BiasFlags:        []bias_detection.Flag{},
		PIIWarnings:      []pii_detection.Warning{},
		UngroundedClaims: []claim_grounding.UngroundedClaim{},
	}

	valid, outputWarnings := output_validation.ValidateResumeOutput(content)
	result.Warnings = append(result.Warnings, outputWarnings...)
	if !valid {
		content = output_validation.Sanitize(content)
		result.Sanitized = true
		result.Passed = false
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeOutputSanitized,
			Category:    auditlogs.CategoryOutputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "generated content sanitized",
			Context:     auditCtx,
		})
	}

	result.BiasFlags = append(result.BiasFlags, v.detectBias(content)...)
	if bias_detection.HasBlocking(result.BiasFlags) {
		result.Passed = false
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeBiasDetected,
			Category:    auditlogs.CategoryOutputValidation,
			Severity:    auditlogs.SeverityError,
			Description: "blocking bias detected in generated content",
			Context:     auditCtx,
		})
	} else if len(result.BiasFlags) > 0 {
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeBiasDetected,
			Category:    auditlogs.CategoryOutputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "bias warnings in generated content",
			Detail:      map[string]interface{}{"count": len(result.BiasFlags)},
			Context:     auditCtx,
		})
	}
	result.Warnings = append(result.Warnings, bias_detection.FormatWarnings(result.BiasFlags)...)

	if matches := v.detectPII(content); len(matches) > 0 {
		result.PIIWarnings = pii_detection.FormatWarnings(matches)
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypePIIDetected,
			Category:    auditlogs.CategoryOutputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "sensitive PII detected in generated content",
			Detail:      map[string]interface{}{"entities": distinctEntities(matches)},
			Context:     auditCtx,
		})
	}

	if opts.SourceProfile != "" {
		result.UngroundedClaims = append(result.UngroundedClaims,
			v.validateClaims(content, opts.SourceProfile, opts.SourceDiscoveries)...)
		if len(result.UngroundedClaims) > 0 {
			v.audit.Emit(auditlogs.Event{
				Type:        auditlogs.EventTypeUngroundedClaims,
				Category:    auditlogs.CategoryOutputValidation,
				Severity:    auditlogs.SeverityWarning,
				Description: "generated content contains claims not evidenced in the source profile",
				Detail:      map[string]interface{}{"count": len(result.UngroundedClaims)},
				Context:     auditCtx,
			})
		}
	}

	return content, result
}

func (v *Validator) checkSize(text string, category InputCategory, cfg Config, auditCtx auditlogs.Context) error {
	texts := input_size.Texts{}
	switch category {
	case CategoryJobDescription:
		texts.JobDescription = &text
	case CategoryUserAnswer:
		texts.UserAnswer = &text
	default:
		texts.Resume = &text
	}
	if err := input_size.Validate(texts, cfg.limits()); err != nil {
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeSizeLimitExceeded,
			Category:    auditlogs.CategoryInputValidation,
			Severity:    auditlogs.SeverityWarning,
			Description: "input size limit exceeded",
			Detail:      map[string]interface{}{"length": len(text), "category": string(category)},
			Context:     auditCtx,
		})
		return err
	}
	return nil
}

// detectInjection fails closed: if the detector cannot complete its scan the
// text is treated as maximum risk.
func (v *Validator) detectInjection(text string, auditCtx auditlogs.Context) (risk injection_detection.RiskLevel, matched []string) {
	defer func() {
		if r := recover(); r != nil {
			risk = injection_detection.RiskHigh
			matched = nil
			v.reportDetectorFailure(injection_detection.DetectorName, r, auditCtx)
		}
	}()
	return injection_detection.Detect(text)
}

// checkSafety fails closed for the same reason.
func (v *Validator) checkSafety(text string, auditCtx auditlogs.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			v.reportDetectorFailure(content_safety.DetectorName, r, auditCtx)
			err = &types.ValidationError{
				StatusCode: 400,
				Message:    "Please keep content professional.",
				Err:        fmt.Errorf("content safety scan failed: %v", r),
			}
		}
	}()
	if err := content_safety.Validate(text); err != nil {
		v.audit.Emit(auditlogs.Event{
			Type:        auditlogs.EventTypeUnsafeContent,
			Category:    auditlogs.CategoryInputValidation,
			Severity:    auditlogs.SeverityError,
			Description: "input blocked for unsafe content",
			Context:     auditCtx,
		})
		return err
	}
	return nil
}

// Advisory detectors fail open: a scan that cannot complete yields no
// findings rather than blocking the request.
func (v *Validator) detectPII(text string) (matches []pii_detection.Match) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			v.reportDetectorFailure(pii_detection.DetectorName, r, auditlogs.Context{})
		}
	}()
	return pii_detection.Detect(text, pii_detection.DetectOptions{})
}

func (v *Validator) detectBias(text string) (flags []bias_detection.Flag) {
	defer func() {
		if r := recover(); r != nil {
			flags = nil
			v.reportDetectorFailure(bias_detection.DetectorName, r, auditlogs.Context{})
		}
	}()
	return bias_detection.Detect(text)
}

func (v *Validator) validateClaims(generated, source string, discoveries []string) (claims []claim_grounding.UngroundedClaim) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			v.reportDetectorFailure(claim_grounding.DetectorName, r, auditlogs.Context{})
		}
	}()
	return claim_grounding.ValidateGrounded(generated, source, discoveries, 0)
}

func (v *Validator) reportDetectorFailure(detector string, cause interface{}, auditCtx auditlogs.Context) {
	if v.logger != nil {
		v.logger.WithFields(logrus.Fields{
			"detector": detector,
			"cause":    fmt.Sprintf("%v", cause),
		}).Error("detector scan failed")
	}
	v.audit.Emit(auditlogs.Event{
		Type:        auditlogs.EventTypeDetectorFailure,
		Category:    auditlogs.CategoryInputValidation,
		Severity:    auditlogs.SeverityError,
		Description: "detector scan failed",
		Detail:      map[string]interface{}{"detector": detector},
		Context:     auditCtx,
	})
}

func distinctEntities(matches []pii_detection.Match) []string {
	seen := make(map[pii_detection.EntityType]bool)
	var entities []string
	for _, match := range matches {
		if !seen[match.Entity] {
			seen[match.Entity] = true
			entities = append(entities, string(match.Entity))
		}
	}
	return entities
}
