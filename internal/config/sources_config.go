package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SourcesConfig drives collection. Order matters: sources are collected in
// the listed order, which fixes the dedup "first arrival wins" policy.
type SourcesConfig struct {
	Order  []string `mapstructure:"order"`
	Cities []string `mapstructure:"cities"`
	Roles  []string `mapstructure:"roles"`

	JobBank   JobBankConfig `mapstructure:"jobbank"`
	Adzuna    AdzunaConfig  `mapstructure:"adzuna"`
	IndeedRSS RSSConfig     `mapstructure:"indeed_rss"`
}

type JobBankConfig struct {
	Enabled              bool    `mapstructure:"enabled"`
	MaxPages             int     `mapstructure:"max_pages"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

type AdzunaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
}

type RSSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var knownSources = map[string]bool{"jobbank": true, "adzuna": true, "indeed_rss": true}

func (config SourcesConfig) validate() error {

	var unknown []string
	for _, name := range config.Order {
		if !knownSources[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown sources in order: %s", strings.Join(unknown, ", "))
	}

	if config.Adzuna.Enabled && (config.Adzuna.AppID == "" || config.Adzuna.AppKey == "") {
		return fmt.Errorf("adzuna enabled but app_id/app_key missing")
	}

	return nil
}

func (config SourcesConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("sources.adzuna.app_id", "ADZUNA_APP_ID"); err != nil {
		return err
	}
	return viper.BindEnv("sources.adzuna.app_key", "ADZUNA_APP_KEY")
}
