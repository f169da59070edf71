package update

import "strings"

const (
	configurationCSVPathKeyConstant      = "csv_path"
	configurationDryRunKeyConstant       = "dry_run"
	configurationNoColorKeyConstant      = "no_color"
	configurationTimeoutKeyConstant      = "command_timeout_seconds"
	configurationKeySeparatorConstant    = "."
	defaultConfigurationFileNameConstant = "repos.csv"
	defaultCommandTimeoutSecondsConstant = 120
)

// CommandConfiguration captures configuration values for the update command.
type CommandConfiguration struct {
	CSVPath               string `mapstructure:"csv_path"`
	DryRun                bool   `mapstructure:"dry_run"`
	NoColor               bool   `mapstructure:"no_color"`
	CommandTimeoutSeconds int    `mapstructure:"command_timeout_seconds"`
}

// DefaultCommandConfiguration provides baseline configuration values for the update command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CSVPath:               defaultConfigurationFileNameConstant,
		DryRun:                false,
		NoColor:               false,
		CommandTimeoutSeconds: defaultCommandTimeoutSecondsConstant,
	}
}

// DefaultConfigurationValues exposes the command defaults keyed for viper registration.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationCSVPathKeyConstant: defaults.CSVPath,
		rootKey + configurationKeySeparatorConstant + configurationDryRunKeyConstant:  defaults.DryRun,
		rootKey + configurationKeySeparatorConstant + configurationNoColorKeyConstant: defaults.NoColor,
		rootKey + configurationKeySeparatorConstant + configurationTimeoutKeyConstant: defaults.CommandTimeoutSeconds,
	}
}

// Sanitize trims textual values and substitutes defaults for unusable ones.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.CSVPath = strings.TrimSpace(configuration.CSVPath)
	if len(sanitized.CSVPath) == 0 {
		sanitized.CSVPath = defaultConfigurationFileNameConstant
	}

	if sanitized.CommandTimeoutSeconds <= 0 {
		sanitized.CommandTimeoutSeconds = defaultCommandTimeoutSecondsConstant
	}

	return sanitized
}
