package config

import (
	"errors"

	"github.com/spf13/viper"
)

type logLevel string

const (
	LevelInfo    logLevel = "INFO"
	LevelDebug   logLevel = "DEBUG"
	LevelWarning logLevel = "WARNING"
	LevelError   logLevel = "ERROR"
	LevelFatal   logLevel = "FATAL"
)

type LoggerConfig struct {
	LogLevel     logLevel `mapstructure:"log_level"`
	AppName      string   `mapstructure:"app_name"`
	LokiURL      string   `mapstructure:"loki_url"`
	LokiUser     string   `mapstructure:"loki_user"`
	LokiPassword string   `mapstructure:"loki_password"`
}

func (config LoggerConfig) validate() error {
	if config.LogLevel == "" {
		return errors.New("missing variable: log_level")
	}
	return nil
}

func (config LoggerConfig) bindEnvironmentVariables() error {

	if err := viper.BindEnv("logger.loki_url", "LOKI_URL"); err != nil {
		return err
	}
	if err := viper.BindEnv("logger.loki_user", "LOKI_USER"); err != nil {
		return err
	}
	if err := viper.BindEnv("logger.loki_password", "LOKI_PASSWORD"); err != nil {
		return err
	}
	if err := viper.BindEnv("logger.app_name", "APP_NAME"); err != nil {
		return err
	}
	return viper.BindEnv("logger.log_level", "LOG_LEVEL")
}
