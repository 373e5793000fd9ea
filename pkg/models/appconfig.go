package models

// AppConfig holds system-wide settings read from .baconfig via Viper.
type AppConfig struct {
	Model           string             `yaml:"model" mapstructure:"model"`
	RequestTimeout  int                `yaml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	ItemIDPrefix    string             `yaml:"item_id_prefix" mapstructure:"item_id_prefix"`
	ProjectIDPrefix string             `yaml:"project_id_prefix" mapstructure:"project_id_prefix"`
	DefaultLanguage string             `yaml:"default_language" mapstructure:"default_language"`
	Notifications   NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
}

// NotificationConfig controls alert delivery and thresholds.
type NotificationConfig struct {
	Enabled bool              `yaml:"enabled" mapstructure:"enabled"`
	Slack   SlackConfig       `yaml:"slack" mapstructure:"slack"`
	Alerts  AlertTuningConfig `yaml:"alerts" mapstructure:"alerts"`
}

// SlackConfig holds Slack webhook settings for alert notifications.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// AlertTuningConfig overrides the default alert thresholds. Zero values
// leave the defaults in place.
type AlertTuningConfig struct {
	DeadlineWarningDays int `yaml:"deadline_warning_days" mapstructure:"deadline_warning_days"`
	StaleDays           int `yaml:"stale_days" mapstructure:"stale_days"`
	MaxOpenItems        int `yaml:"max_open_items" mapstructure:"max_open_items"`
}
