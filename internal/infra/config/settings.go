package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"reactor.de/certprofile/internal/domain"
)

// EnvPrefix is the prefix of environment variables overriding settings.yaml.
const EnvPrefix = "CERTPROFILE"

// ViperSettingsLoader implements domain.SettingsLoader on top of settings.yaml
// with CERTPROFILE_* environment overrides.
type ViperSettingsLoader struct {
	configPath string
}

// NewSettingsLoader creates a settings loader reading from configPath.
func NewSettingsLoader(configPath string) *ViperSettingsLoader {
	return &ViperSettingsLoader{configPath: configPath}
}

// LoadSettings reads settings.yaml if present. A missing file yields defaults.
func (l *ViperSettingsLoader) LoadSettings() (*domain.Settings, error) {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("default_profile", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "certprofile.log")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read settings.yaml: %w", err)
		}
	}

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("could not parse settings.yaml: %w", err)
	}

	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("%w: log_level must be one of debug, info, warn, error (got %q)", domain.ErrValidation, s.LogLevel)
	}

	return &s, nil
}
