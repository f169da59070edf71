package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repoup/internal/execshell"
	"github.com/temirov/repoup/internal/gitrepo"
	"github.com/temirov/repoup/internal/inventory"
	"github.com/temirov/repoup/internal/ui"
	"github.com/temirov/repoup/internal/utils"
)

const (
	commandUseConstant                        = "update"
	commandShortDescriptionConstant           = "Update local git repositories listed in a CSV file"
	commandLongDescriptionConstant            = "update reads a CSV inventory of repositories, fetches remotes, and fast-forwards the listed branches of every enabled repository, restoring the originally checked-out branch afterwards."
	csvFlagNameConstant                       = "csv"
	csvFlagShorthandConstant                  = "c"
	csvFlagDescriptionConstant                = "Path to the CSV file listing repositories"
	dryRunFlagNameConstant                    = "dry-run"
	dryRunFlagShorthandConstant               = "n"
	dryRunFlagDescriptionConstant             = "Report intended updates without touching any repository"
	noColorFlagNameConstant                   = "no-color"
	noColorFlagDescriptionConstant            = "Disable colored console output"
	commandHeaderTitleConstant                = "Git Repository Updater"
	dryRunBannerMessageConstant               = "DRY RUN MODE - No changes will be made"
	usingConfigurationMessageTemplateConstant = "Using configuration: %s"
	loadingMessageTemplateConstant            = "Loading repositories from: %s"
	loadedMessageTemplateConstant             = "Loaded %d repositories (%d enabled)"
	createFileHintMessageConstant             = "Create a CSV file with the following format:"
	csvHintHeaderLineConstant                 = "  path,branches,enabled"
	csvHintExampleLineConstant                = "  /path/to/repo,main,true"
	interruptedConsoleMessageConstant         = "Interrupted by user"
	noEnabledRepositoriesMessageConstant      = "No enabled repositories found in CSV file"
	updatesFailedErrorTemplateConstant        = "%d of %d branch updates failed"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	GitExecutor           gitrepo.GitExecutor
	FileSystem            inventory.FileSystem
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().StringP(csvFlagNameConstant, csvFlagShorthandConstant, "", csvFlagDescriptionConstant)
	command.Flags().BoolP(dryRunFlagNameConstant, dryRunFlagShorthandConstant, false, dryRunFlagDescriptionConstant)
	command.Flags().Bool(noColorFlagNameConstant, false, noColorFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	inventoryFilePath, csvFlagError := resolveStringSetting(command, csvFlagNameConstant, configuration.CSVPath)
	if csvFlagError != nil {
		return csvFlagError
	}

	dryRun, dryRunFlagError := resolveBoolSetting(command, dryRunFlagNameConstant, configuration.DryRun)
	if dryRunFlagError != nil {
		return dryRunFlagError
	}

	noColor, noColorFlagError := resolveBoolSetting(command, noColorFlagNameConstant, configuration.NoColor)
	if noColorFlagError != nil {
		return noColorFlagError
	}

	colorsEnabled := !noColor && ui.DetectColorSupport(command.OutOrStdout())
	console := ui.NewConsoleLogger(command.OutOrStdout(), command.ErrOrStderr(), colorsEnabled)
	logger := builder.resolveLogger()

	sessionFactory, factoryError := builder.resolveSessionFactory(logger, console, configuration)
	if factoryError != nil {
		return factoryError
	}

	service, serviceCreationError := NewService(Dependencies{
		Console:        console,
		Logger:         logger,
		SessionFactory: sessionFactory,
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	console.Header(commandHeaderTitleConstant)
	if dryRun {
		console.Warning(dryRunBannerMessageConstant)
		console.Newline()
	}
	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFileUsed, available := contextAccessor.ConfigurationFilePath(command.Context()); available && len(configurationFileUsed) > 0 {
		console.Dim(fmt.Sprintf(usingConfigurationMessageTemplateConstant, configurationFileUsed))
	}
	console.Info(fmt.Sprintf(loadingMessageTemplateConstant, inventoryFilePath))

	countingLoader := inventory.NewLoader(builder.FileSystem, nil)
	totalCount, enabledCount, countError := countingLoader.CountRepositories(inventoryFilePath)
	if countError != nil {
		console.Error(countError.Error())
		console.Info(createFileHintMessageConstant)
		console.Dim(csvHintHeaderLineConstant)
		console.Dim(csvHintExampleLineConstant)
		return countError
	}
	console.Dim(fmt.Sprintf(loadedMessageTemplateConstant, totalCount, enabledCount))
	console.Newline()

	loader := inventory.NewLoader(builder.FileSystem, console)
	repositories, loadError := loader.EnabledRepositories(inventoryFilePath)
	if loadError != nil {
		return loadError
	}

	outcomes, processedCount, runError := service.Run(command.Context(), repositories, dryRun)
	if runError != nil {
		if errors.Is(runError, ErrInterrupted) {
			console.Warning(interruptedConsoleMessageConstant)
		}
		return runError
	}

	if processedCount == 0 {
		console.Warning(noEnabledRepositoriesMessageConstant)
		return nil
	}

	summary := NewRunSummary(outcomes)
	NewSummaryReporter(console).Print(summary)

	if summary.FailureCount > 0 {
		return fmt.Errorf(updatesFailedErrorTemplateConstant, summary.FailureCount, summary.Total())
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveSessionFactory(logger *zap.Logger, console *ui.ConsoleLogger, configuration CommandConfiguration) (SessionFactory, error) {
	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		commandTimeout := time.Duration(configuration.CommandTimeoutSeconds) * time.Second
		shellExecutor, executorCreationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), commandTimeout)
		if executorCreationError != nil {
			return nil, executorCreationError
		}
		gitExecutor = shellExecutor
	}

	repositoryManager, managerCreationError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerCreationError != nil {
		return nil, managerCreationError
	}

	return func(executionContext context.Context, repositoryPath string) (RepositorySession, error) {
		return gitrepo.OpenRepositorySession(executionContext, repositoryManager, console, repositoryPath)
	}, nil
}

func resolveStringSetting(command *cobra.Command, flagName string, configuredValue string) (string, error) {
	if command.Flags().Changed(flagName) {
		return command.Flags().GetString(flagName)
	}
	return configuredValue, nil
}

func resolveBoolSetting(command *cobra.Command, flagName string, configuredValue bool) (bool, error) {
	if command.Flags().Changed(flagName) {
		return command.Flags().GetBool(flagName)
	}
	return configuredValue, nil
}
