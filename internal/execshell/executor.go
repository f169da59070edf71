package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedMessageTemplateConstant      = "%s failed with exit code %d: %s"
	commandExecutionMessageTemplateConstant   = "%s failed: %s"
	unknownFailureMessageConstant             = "unknown error"
	commandStartedMessageConstant             = "running command"
	commandCompletedMessageConstant           = "command completed"
	commandFailedLogMessageConstant           = "command failed"
	commandExecutionFailedLogMessageConstant  = "command execution failed"
	logFieldCommandConstant                   = "command"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "standard_error"

	// DefaultCommandTimeout bounds every command invocation unless overridden.
	DefaultCommandTimeout = 120 * time.Second
)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure, preferring standard error output over standard output.
func (failedError CommandFailedError) Error() string {
	failureDetail := strings.TrimSpace(failedError.Result.StandardError)
	if len(failureDetail) == 0 {
		failureDetail = strings.TrimSpace(failedError.Result.StandardOutput)
	}
	if len(failureDetail) == 0 {
		failureDetail = unknownFailureMessageConstant
	}
	return fmt.Sprintf(commandFailedMessageTemplateConstant, failedError.Command.label(), failedError.Result.ExitCode, failureDetail)
}

// CommandExecutionError reports a command that could not be executed at all,
// for example when the binary is missing or the timeout elapsed.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	failureMessage := unknownFailureMessageConstant
	if executionError.Cause != nil {
		failureMessage = executionError.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionMessageTemplateConstant, executionError.Command.label(), failureMessage)
}

// Unwrap exposes the underlying cause for errors.Is inspection.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor coordinates command execution with logging and bounded timeouts.
type ShellExecutor struct {
	logger         *zap.Logger
	commandRunner  CommandRunner
	commandTimeout time.Duration
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
// A non-positive timeout selects DefaultCommandTimeout.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, commandTimeout time.Duration) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}

	return &ShellExecutor{logger: logger, commandRunner: commandRunner, commandTimeout: commandTimeout}, nil
}

// ExecuteGit runs the git binary with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, command.label()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	boundedContext, cancelExecution := context.WithTimeout(executionContext, executor.commandTimeout)
	defer cancelExecution()

	executionResult, runError := executor.commandRunner.Run(boundedContext, command)
	if runError != nil {
		executor.logger.Error(
			commandExecutionFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.label()),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.label()),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, command.label()),
	)

	return executionResult, nil
}
