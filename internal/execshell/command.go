package execshell

import (
	"context"
	"strings"
)

const (
	gitCommandNameConstant                 = "git"
	commandArgumentsJoinSeparatorConstant  = " "
	environmentAssignmentSeparatorConstant = "="
)

// CommandName identifies a supported executable.
type CommandName string

// CommandGit names the external git binary.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandDetails describes one invocation of an external executable.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

func (command ShellCommand) label() string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}
