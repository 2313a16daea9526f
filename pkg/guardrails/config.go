package guardrails

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/resumegate/guardrails/pkg/guardrails/injection_detection"
	"github.com/resumegate/guardrails/pkg/guardrails/input_size"
)

// Config is a plain value object: detectors never mutate it, and no global
// default carries state across calls.
type Config struct {
	MaxResumeLength         int  `mapstructure:"max_resume_length"`
	MaxJobDescriptionLength int  `mapstructure:"max_job_description_length"`
	MaxAnswerLength         int  `mapstructure:"max_answer_length"`
	MaxTotalTokens          int  `mapstructure:"max_total_tokens"`
	BlockInjections         bool `mapstructure:"block_injections"`
	BlockToxicContent       bool `mapstructure:"block_toxic_content"`

	// Injection risk at or above this level rejects the input.
	InjectionBlockLevel injection_detection.RiskLevel `mapstructure:"injection_block_level"`
}

func DefaultConfig() Config {
	return Config{
		MaxResumeLength:         input_size.MaxResumeChars,
		MaxJobDescriptionLength: input_size.MaxJobDescriptionChars,
		MaxAnswerLength:         input_size.MaxAnswerChars,
		MaxTotalTokens:          input_size.MaxTotalTokens,
		BlockInjections:         true,
		BlockToxicContent:       true,
		InjectionBlockLevel:     injection_detection.RiskHigh,
	}
}

// ParseConfig decodes a loosely typed settings map, as stored in tenant
// configuration, over the defaults. The risk level may be given as a string
// name.
func ParseConfig(settings map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: riskLevelHook,
		Result:     &cfg,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return Config{}, fmt.Errorf("failed to decode guardrail settings: %w", err)
	}
	return cfg, nil
}

func riskLevelHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(injection_detection.RiskNone) {
		return data, nil
	}
	return injection_detection.ParseRiskLevel(data.(string))
}

func (c Config) limits() input_size.Limits {
	return input_size.Limits{
		ResumeChars:         c.MaxResumeLength,
		JobDescriptionChars: c.MaxJobDescriptionLength,
		AnswerChars:         c.MaxAnswerLength,
		TotalTokens:         c.MaxTotalTokens,
	}
}
