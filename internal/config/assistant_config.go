package config

import "github.com/spf13/viper"

// AssistantConfig configures the Gemini-backed query assistant. Disabled
// when the key is empty.
type AssistantConfig struct {
	AIKey                  string  `mapstructure:"ai_key"`
	AiModel                string  `mapstructure:"ai_model"`
	AiMaxRequestsPerMinute float32 `mapstructure:"ai_max_requests_per_minute"`
	AiMaxRequestsPerDay    float32 `mapstructure:"ai_max_requests_per_day"`
}

func (config AssistantConfig) Enabled() bool {
	return config.AIKey != ""
}

func (config AssistantConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("assistant.ai_key", "AI_KEY"); err != nil {
		return err
	}
	return viper.BindEnv("assistant.ai_model", "AI_MODEL")
}
