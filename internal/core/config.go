package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
	"github.com/spf13/viper"
)

// validPrefixPattern matches uppercase alphanumeric prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager defines the interface for loading and validating
// configuration from the .baconfig file in the base path.
type ConfigurationManager interface {
	LoadConfig() (*models.AppConfig, error)
	ValidateConfig(cfg *models.AppConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the root directory where .baconfig resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultConfig returns an AppConfig populated with sensible defaults.
func defaultConfig() *models.AppConfig {
	return &models.AppConfig{
		Model:           "claude-sonnet-4-5",
		RequestTimeout:  120,
		ItemIDPrefix:    "ITEM",
		ProjectIDPrefix: "PROJ",
		DefaultLanguage: "en",
	}
}

// LoadConfig reads the .baconfig file from the base path using Viper.
// If the file does not exist, sensible defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName(".baconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("generation.model", cfg.Model)
	v.SetDefault("generation.request_timeout_seconds", cfg.RequestTimeout)
	v.SetDefault("ids.item_prefix", cfg.ItemIDPrefix)
	v.SetDefault("ids.project_prefix", cfg.ProjectIDPrefix)
	v.SetDefault("defaults.language", cfg.DefaultLanguage)
	v.SetDefault("notifications.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .baconfig: %w", err)
	}

	cfg.Model = v.GetString("generation.model")
	cfg.RequestTimeout = v.GetInt("generation.request_timeout_seconds")
	cfg.ItemIDPrefix = v.GetString("ids.item_prefix")
	cfg.ProjectIDPrefix = v.GetString("ids.project_prefix")
	cfg.DefaultLanguage = v.GetString("defaults.language")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")
	cfg.Notifications.Alerts.DeadlineWarningDays = v.GetInt("notifications.alerts.deadline_warning_days")
	cfg.Notifications.Alerts.StaleDays = v.GetInt("notifications.alerts.stale_days")
	cfg.Notifications.Alerts.MaxOpenItems = v.GetInt("notifications.alerts.max_open_items")

	return cfg, nil
}

// ValidateConfig checks the provided configuration for invalid values and
// returns a clear error message identifying the problem.
func (cm *viperConfigManager) ValidateConfig(cfg *models.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.Model == "" {
		errs = append(errs, "generation.model must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("generation.request_timeout_seconds must be positive, got %d", cfg.RequestTimeout))
	}
	if cfg.ItemIDPrefix != "" && !validPrefixPattern.MatchString(cfg.ItemIDPrefix) {
		errs = append(errs, fmt.Sprintf("ids.item_prefix %q is invalid, must match [A-Z0-9]{1,10}", cfg.ItemIDPrefix))
	}
	if cfg.ProjectIDPrefix != "" && !validPrefixPattern.MatchString(cfg.ProjectIDPrefix) {
		errs = append(errs, fmt.Sprintf("ids.project_prefix %q is invalid, must match [A-Z0-9]{1,10}", cfg.ProjectIDPrefix))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
