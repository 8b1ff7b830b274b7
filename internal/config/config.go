package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	DB        DBConfig        `mapstructure:"db"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if path, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configFile = path
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	if err := bindEnvironmentVariables(); err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("metrics.port", 8080)
	viper.SetDefault("pipeline.recency_window_days", 30)
	viper.SetDefault("pipeline.min_salary", 30000)
	viper.SetDefault("pipeline.max_salary", 250000)
	viper.SetDefault("pipeline.max_experience_years", 30)
	viper.SetDefault("pipeline.retention_days", 90)
	viper.SetDefault("logger.log_level", string(LevelInfo))
}

func bindEnvironmentVariables() error {
	var errs []error

	db, lg, notifier, assistant, sources :=
		DBConfig{}, LoggerConfig{}, NotifierConfig{}, AssistantConfig{}, SourcesConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}
	if err := lg.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}
	if err := notifier.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("NotifierConfig: %w", err))
	}
	if err := assistant.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AssistantConfig: %w", err))
	}
	if err := sources.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("SourcesConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}
	if err := config.Pipeline.validate(); err != nil {
		errs = append(errs, fmt.Errorf("PipelineConfig: %w", err))
	}
	if err := config.Sources.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SourcesConfig: %w", err))
	}
	if err := config.Notifier.validate(); err != nil {
		errs = append(errs, fmt.Errorf("NotifierConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}
