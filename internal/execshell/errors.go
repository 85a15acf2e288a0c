package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	loggerNotConfiguredMessageConstant                = "logger not configured"
	commandRunnerNotConfiguredMessageConstant         = "command runner not configured"
	emptyCommandLineMessageConstant                   = "command line is empty"
	outputBufferExceededMessageConstant               = "output buffer limit exceeded"
	commandFailedTemplateConstant                     = "command exited with code %d: %s"
	commandFailedWithStandardErrorTemplateConstant    = "command exited with code %d: %s: %s"
	commandExecutionErrorTemplateConstant             = "command could not be executed: %s: %v"
	commandExecutionWithStandardErrorTemplateConstant = "command could not be executed: %s: %v: %s"
)

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrEmptyCommandLine indicates an attempt to run a blank command line.
	ErrEmptyCommandLine = errors.New(emptyCommandLineMessageConstant)
	// ErrOutputBufferExceeded indicates the child produced more output than the configured ceiling.
	ErrOutputBufferExceeded = errors.New(outputBufferExceededMessageConstant)
)

// CommandFailedError reports a command that ran and returned a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failure.Result.ExitCode, failure.Command.CommandLine)
	}
	return fmt.Sprintf(commandFailedWithStandardErrorTemplateConstant, failure.Result.ExitCode, failure.Command.CommandLine, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started, waited on, or
// finished within the output ceiling. Result carries whatever output was captured
// before the failure.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
	Result  ExecutionResult
}

// Error describes the execution failure, including captured standard error when present.
func (failure CommandExecutionError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.CommandLine, failure.Cause)
	}
	return fmt.Sprintf(commandExecutionWithStandardErrorTemplateConstant, failure.Command.CommandLine, failure.Cause, trimmedStandardError)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
