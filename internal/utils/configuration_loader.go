package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeyReplacementSourceConstant    = "."
	environmentKeyReplacementTargetConstant    = "_"
	embeddedDefaultsMergeErrorTemplateConstant = "unable to merge embedded configuration defaults: %w"
	configurationFileReadErrorTemplateConstant = "unable to read configuration file: %w"
	configurationDecodeErrorTemplateConstant   = "unable to decode configuration: %w"
)

// ConfigurationLoader resolves configuration by layering viper sources from
// weakest to strongest: embedded defaults, programmatic defaults, a
// configuration file (explicit path, or discovered in the search directory),
// and prefixed environment variables.
type ConfigurationLoader struct {
	configurationName string
	configurationType string
	environmentPrefix string
	searchPath        string
	embeddedDefaults  []byte
}

// LoadedConfiguration reports where the resolved configuration came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader constructs a loader. Embedded defaults may be nil
// when no baked-in configuration document exists.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPath string, embeddedDefaults []byte) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPath:        searchPath,
		embeddedDefaults:  embeddedDefaults,
	}
}

// LoadConfiguration populates targetConfiguration and reports which file, if
// any, supplied values. A missing configuration file is not an error; an
// unreadable or malformed one is.
func (loader *ConfigurationLoader) LoadConfiguration(explicitFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)
	viperInstance.AddConfigPath(loader.searchPath)

	if len(loader.embeddedDefaults) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedDefaults)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedDefaultsMergeErrorTemplateConstant, mergeError)
		}
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeyReplacementSourceConstant, environmentKeyReplacementTargetConstant))
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(explicitFilePath) > 0 {
		viperInstance.SetConfigFile(explicitFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationFileReadErrorTemplateConstant, readError)
		}
	}

	if decodeError := viperInstance.Unmarshal(targetConfiguration); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
