package execshell

import (
	"errors"

	"go.uber.org/zap"
)

const (
	commandCompletedMessageConstant       = "command completed"
	commandFailedMessageConstant          = "command failed"
	commandExecutionFailedMessageConstant = "command execution failed"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldExitCodeConstant              = "exit_code"
	logFieldStandardOutputConstant        = "stdout"
	logFieldStandardErrorConstant         = "stderr"
)

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

// CommandStarted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

// CommandCompleted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

// CommandExecutionFailed implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// StructuredCommandEventLogger records command outcomes as structured zap entries.
// Start events are not logged; ShellExecutor already records the command line at debug level.
type StructuredCommandEventLogger struct {
	logger *zap.Logger
}

// NewStructuredCommandEventLogger constructs a structured event logger.
func NewStructuredCommandEventLogger(logger *zap.Logger) *StructuredCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredCommandEventLogger{logger: logger}
}

// CommandStarted implements CommandEventObserver.
func (eventLogger *StructuredCommandEventLogger) CommandStarted(ShellCommand) {}

// CommandCompleted logs captured stdout on success and captured stderr on failure.
func (eventLogger *StructuredCommandEventLogger) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(
			commandCompletedMessageConstant,
			zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
			zap.String(logFieldStandardOutputConstant, result.StandardOutput),
		)
		return
	}
	eventLogger.logger.Warn(
		commandFailedMessageConstant,
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, result.StandardError),
	)
}

// CommandExecutionFailed logs failures that prevented the command from producing a result,
// with any standard error captured before the failure.
func (eventLogger *StructuredCommandEventLogger) CommandExecutionFailed(command ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	logFields := []zap.Field{
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.Error(failure),
	}
	var executionFailure CommandExecutionError
	if errors.As(failure, &executionFailure) && len(executionFailure.Result.StandardError) > 0 {
		logFields = append(logFields, zap.String(logFieldStandardErrorConstant, executionFailure.Result.StandardError))
	}
	eventLogger.logger.Error(commandExecutionFailedMessageConstant, logFields...)
}
