package execshell

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	executingCommandTemplateConstant = "Executing command: %s"
)

// ShellExecutor runs shell commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger        *zap.Logger
	runner        CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor constructs an executor that records outcomes as structured log entries.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, NewStructuredCommandEventLogger(logger))
}

// NewShellExecutorWithObserver constructs an executor that reports lifecycle events to the provided observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{logger: logger, runner: runner, eventObserver: observer}, nil
}

// Execute runs the command and returns its result.
// A non-zero exit code yields CommandFailedError. A runner failure yields
// CommandExecutionError carrying the output captured before the failure.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		fmt.Sprintf(executingCommandTemplateConstant, command.CommandLine),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError, Result: executionResult}
		executor.eventObserver.CommandExecutionFailed(command, executionFailure)
		return executionResult, executionFailure
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}
