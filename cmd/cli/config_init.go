package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repoup/internal/update"
	"github.com/temirov/repoup/internal/utils"
)

const (
	configInitCommandUseConstant              = "config-init"
	configInitShortDescriptionConstant        = "Write a default configuration file"
	configInitLongDescriptionConstant         = "config-init writes a configuration file pre-populated with the default settings for every repoup command."
	configInitOutputFlagNameConstant          = "output"
	configInitOutputFlagShorthandConstant     = "o"
	configInitOutputFlagDescriptionConstant   = "Destination path for the generated configuration file"
	configInitDefaultOutputPathConstant       = "config.yaml"
	configInitExistingFileErrorTemplate       = "configuration file already exists: %s"
	configInitEncodeErrorTemplateConstant     = "unable to encode configuration: %w"
	configInitWriteErrorTemplateConstant      = "unable to write configuration file: %w"
	configInitSuccessMessageTemplateConstant  = "Wrote default configuration to %s\n"
	configInitFilePermissionsConstant         = 0o644
	configurationWrittenLogMessageConstant    = "default configuration written"
	configurationOutputPathLogFieldConstant   = "output_path"
)

type configurationDocument struct {
	Common configurationCommonSection `yaml:"common"`
	Tools  configurationToolsSection  `yaml:"tools"`
}

type configurationCommonSection struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type configurationToolsSection struct {
	Update configurationUpdateSection `yaml:"update"`
}

type configurationUpdateSection struct {
	CSVPath               string `yaml:"csv_path"`
	DryRun                bool   `yaml:"dry_run"`
	NoColor               bool   `yaml:"no_color"`
	CommandTimeoutSeconds int    `yaml:"command_timeout_seconds"`
}

// ConfigInitCommandBuilder assembles the config-init command.
type ConfigInitCommandBuilder struct {
	LoggerProvider func() *zap.Logger
}

// Build constructs the config-init command.
func (builder *ConfigInitCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   configInitCommandUseConstant,
		Short: configInitShortDescriptionConstant,
		Long:  configInitLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().StringP(configInitOutputFlagNameConstant, configInitOutputFlagShorthandConstant, configInitDefaultOutputPathConstant, configInitOutputFlagDescriptionConstant)

	return command, nil
}

func (builder *ConfigInitCommandBuilder) run(command *cobra.Command, arguments []string) error {
	outputPath, outputFlagError := command.Flags().GetString(configInitOutputFlagNameConstant)
	if outputFlagError != nil {
		return outputFlagError
	}

	if _, statError := os.Stat(outputPath); statError == nil {
		return fmt.Errorf(configInitExistingFileErrorTemplate, outputPath)
	}

	encodedConfiguration, encodeError := yaml.Marshal(defaultConfigurationDocument())
	if encodeError != nil {
		return fmt.Errorf(configInitEncodeErrorTemplateConstant, encodeError)
	}

	if writeError := os.WriteFile(outputPath, encodedConfiguration, configInitFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configInitWriteErrorTemplateConstant, writeError)
	}

	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			logger.Debug(configurationWrittenLogMessageConstant, zap.String(configurationOutputPathLogFieldConstant, outputPath))
		}
	}

	fmt.Fprintf(command.OutOrStdout(), configInitSuccessMessageTemplateConstant, outputPath)
	return nil
}

func defaultConfigurationDocument() configurationDocument {
	updateDefaults := update.DefaultCommandConfiguration()
	return configurationDocument{
		Common: configurationCommonSection{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatStructured),
		},
		Tools: configurationToolsSection{
			Update: configurationUpdateSection{
				CSVPath:               updateDefaults.CSVPath,
				DryRun:                updateDefaults.DryRun,
				NoColor:               updateDefaults.NoColor,
				CommandTimeoutSeconds: updateDefaults.CommandTimeoutSeconds,
			},
		},
	}
}
