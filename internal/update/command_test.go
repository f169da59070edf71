package update_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoup/internal/execshell"
	"github.com/temirov/repoup/internal/update"
	"github.com/temirov/repoup/internal/utils"
)

const (
	csvHeaderLineConstant         = "path,branches,enabled"
	csvFlagArgumentConstant       = "--csv"
	dryRunFlagArgumentConstant    = "--dry-run"
	gitDirectoryNameConstant      = ".git"
	configurationFileNameConstant = "repos.csv"
)

type recordedGitInvocation struct {
	workingDirectory string
	arguments        []string
}

type scriptedGitExecutor struct {
	invocations        []recordedGitInvocation
	failingSubcommands map[string]bool
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{failingSubcommands: map[string]bool{}}
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, recordedGitInvocation{
		workingDirectory: details.WorkingDirectory,
		arguments:        details.Arguments,
	})

	subcommand := details.Arguments[0]
	if executor.failingSubcommands[subcommand] {
		return execshell.ExecutionResult{}, errors.New(subcommand + " failed")
	}

	if subcommand == "rev-parse" {
		return execshell.ExecutionResult{StandardOutput: "main\n"}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *scriptedGitExecutor) subcommandSequence() []string {
	sequence := make([]string, 0, len(executor.invocations))
	for _, invocation := range executor.invocations {
		sequence = append(sequence, invocation.arguments[0])
	}
	return sequence
}

func writeRepositoryInventory(testInstance *testing.T, branchList string, enabledValue string) (string, string) {
	testInstance.Helper()

	temporaryDirectory := testInstance.TempDir()
	repositoryPath := filepath.Join(temporaryDirectory, "sample")
	require.NoError(testInstance, os.MkdirAll(filepath.Join(repositoryPath, gitDirectoryNameConstant), 0o755))

	repositoryRow := strings.Join([]string{repositoryPath, `"` + branchList + `"`, enabledValue}, ",")
	configurationFilePath := filepath.Join(temporaryDirectory, configurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(csvHeaderLineConstant+"\n"+repositoryRow+"\n"), 0o644))

	return configurationFilePath, repositoryPath
}

func executeUpdateCommand(testInstance *testing.T, executor *scriptedGitExecutor, commandArguments []string) (string, string, error) {
	testInstance.Helper()

	builder := update.CommandBuilder{GitExecutor: executor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(errorBuffer)
	command.SetArgs(commandArguments)

	executionError := command.ExecuteContext(context.Background())
	return outputBuffer.String(), errorBuffer.String(), executionError
}

func TestUpdateCommandUpdatesListedBranches(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	configurationFilePath, repositoryPath := writeRepositoryInventory(testInstance, "main,develop", "true")

	standardOutput, _, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, configurationFilePath})

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, standardOutput, "Git Repository Updater")
	require.Contains(testInstance, standardOutput, "Processing: "+repositoryPath)
	require.Contains(testInstance, standardOutput, "Total: 2 | Success: 2 | Failed: 0")

	expectedSequence := []string{"rev-parse", "status", "fetch", "checkout", "pull", "checkout", "pull", "checkout"}
	require.Equal(testInstance, expectedSequence, executor.subcommandSequence())

	finalInvocation := executor.invocations[len(executor.invocations)-1]
	require.Equal(testInstance, []string{"checkout", "main"}, finalInvocation.arguments)
	require.Equal(testInstance, repositoryPath, finalInvocation.workingDirectory)
}

func TestUpdateCommandDryRunAvoidsGitCommands(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	configurationFilePath, _ := writeRepositoryInventory(testInstance, "main", "true")

	standardOutput, _, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, configurationFilePath, dryRunFlagArgumentConstant})

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, standardOutput, "DRY RUN MODE - No changes will be made")
	require.Contains(testInstance, standardOutput, "Would update branch: main")
	require.Empty(testInstance, executor.invocations)
}

func TestUpdateCommandReportsMissingConfigurationFile(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	missingPath := filepath.Join(testInstance.TempDir(), configurationFileNameConstant)

	standardOutput, _, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, missingPath})

	require.Error(testInstance, executionError)
	require.Contains(testInstance, standardOutput, "Create a CSV file with the following format:")
	require.Contains(testInstance, standardOutput, "path,branches,enabled")
	require.Empty(testInstance, executor.invocations)
}

func TestUpdateCommandFailsWhenBranchUpdateFails(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.failingSubcommands["pull"] = true

	configurationFilePath, _ := writeRepositoryInventory(testInstance, "main", "true")

	standardOutput, errorOutput, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, configurationFilePath})

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "1 of 1 branch updates failed")
	require.Contains(testInstance, errorOutput, "Failed to pull branch 'main'")
	require.Contains(testInstance, standardOutput, "Total: 1 | Success: 0 | Failed: 1")
}

func TestUpdateCommandReportsConfigurationFileInUse(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	configurationFilePath, _ := writeRepositoryInventory(testInstance, "main", "true")

	builder := update.CommandBuilder{GitExecutor: executor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{csvFlagArgumentConstant, configurationFilePath, dryRunFlagArgumentConstant})

	resolvedConfigurationPath := "/home/developer/.config/repoup/config.yaml"
	executionContext := utils.NewCommandContextAccessor().WithConfigurationFilePath(context.Background(), resolvedConfigurationPath)

	require.NoError(testInstance, command.ExecuteContext(executionContext))
	require.Contains(testInstance, outputBuffer.String(), "Using configuration: "+resolvedConfigurationPath)
}

func TestUpdateCommandOmitsConfigurationLineWithoutResolvedFile(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	configurationFilePath, _ := writeRepositoryInventory(testInstance, "main", "true")

	standardOutput, _, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, configurationFilePath, dryRunFlagArgumentConstant})

	require.NoError(testInstance, executionError)
	require.NotContains(testInstance, standardOutput, "Using configuration:")
}

func TestUpdateCommandWarnsWhenNoRepositoriesEnabled(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	configurationFilePath, _ := writeRepositoryInventory(testInstance, "main", "false")

	standardOutput, _, executionError := executeUpdateCommand(testInstance, executor, []string{csvFlagArgumentConstant, configurationFilePath})

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, standardOutput, "No enabled repositories found in CSV file")
	require.NotContains(testInstance, standardOutput, "Update Summary")
	require.Empty(testInstance, executor.invocations)
}
