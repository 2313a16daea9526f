package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/resumegate/guardrails/pkg/guardrails"
	"github.com/resumegate/guardrails/pkg/guardrails/injection_detection"
)

// fileConfig mirrors guardrails.Config with the risk level as a string so it
// can be written in YAML or an environment variable.
type fileConfig struct {
	MaxResumeLength         int    `mapstructure:"max_resume_length"`
	MaxJobDescriptionLength int    `mapstructure:"max_job_description_length"`
	MaxAnswerLength         int    `mapstructure:"max_answer_length"`
	MaxTotalTokens          int    `mapstructure:"max_total_tokens"`
	BlockInjections         bool   `mapstructure:"block_injections"`
	BlockToxicContent       bool   `mapstructure:"block_toxic_content"`
	InjectionBlockLevel     string `mapstructure:"injection_block_level"`
}

// Load reads guardrail settings from an optional YAML file and the
// GUARDRAILS_* environment, falling back to the built-in defaults.
func Load(path string) (guardrails.Config, error) {
	defaults := guardrails.DefaultConfig()

	v := viper.New()
	v.SetDefault("max_resume_length", defaults.MaxResumeLength)
	v.SetDefault("max_job_description_length", defaults.MaxJobDescriptionLength)
	v.SetDefault("max_answer_length", defaults.MaxAnswerLength)
	v.SetDefault("max_total_tokens", defaults.MaxTotalTokens)
	v.SetDefault("block_injections", defaults.BlockInjections)
	v.SetDefault("block_toxic_content", defaults.BlockToxicContent)
	v.SetDefault("injection_block_level", defaults.InjectionBlockLevel.String())

	v.SetEnvPrefix("GUARDRAILS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return guardrails.Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return guardrails.Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	level, err := injection_detection.ParseRiskLevel(fc.InjectionBlockLevel)
	if err != nil {
		return guardrails.Config{}, err
	}

	cfg := guardrails.Config{
		MaxResumeLength:         fc.MaxResumeLength,
		MaxJobDescriptionLength: fc.MaxJobDescriptionLength,
		MaxAnswerLength:         fc.MaxAnswerLength,
		MaxTotalTokens:          fc.MaxTotalTokens,
		BlockInjections:         fc.BlockInjections,
		BlockToxicContent:       fc.BlockToxicContent,
		InjectionBlockLevel:     level,
	}
	if err := validate(cfg); err != nil {
		return guardrails.Config{}, err
	}
	return cfg, nil
}

func validate(cfg guardrails.Config) error {
	if cfg.MaxResumeLength <= 0 {
		return fmt.Errorf("max_resume_length must be greater than 0")
	}
	if cfg.MaxJobDescriptionLength <= 0 {
		return fmt.Errorf("max_job_description_length must be greater than 0")
	}
	if cfg.MaxAnswerLength <= 0 {
		return fmt.Errorf("max_answer_length must be greater than 0")
	}
	if cfg.MaxTotalTokens <= 0 {
		return fmt.Errorf("max_total_tokens must be greater than 0")
	}
	return nil
}
