package ui

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cdksynth/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	commandOutputMessageTemplateConstant           = "Output of %s:\n%s"
	commandLabelTemplateConstant                   = "%s%s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	truncatedLabelSuffixConstant                   = "..."
	unknownFailureMessageConstant                  = "unknown error"
	emptyStringConstant                            = ""
	defaultMaximumLabelLengthConstant              = 160
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
// Labels longer than MaximumLabelLength runes are truncated; zero selects the default.
type CommandEventFormatter struct {
	MaximumLabelLength int
}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
// Only the last non-empty line of standard error is appended.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	baseMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	return baseMessage + formatter.formatStandardErrorSuffix(result.StandardError)
}

// BuildOutputMessage formats captured standard output, or returns an empty string when there is none.
func (formatter CommandEventFormatter) BuildOutputMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	trimmedOutput := strings.TrimRight(result.StandardOutput, "\r\n")
	if len(strings.TrimSpace(trimmedOutput)) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(commandOutputMessageTemplateConstant, formatter.formatCommandLabel(command), trimmedOutput)
}

// BuildExecutionFailureMessage formats the message describing a failure that prevented the command from finishing.
// Standard error captured before the failure contributes its last non-empty line.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	var executionFailure execshell.CommandExecutionError
	switch {
	case errors.As(failure, &executionFailure) && executionFailure.Cause != nil:
		failureMessage = executionFailure.Cause.Error() + formatter.formatStandardErrorSuffix(executionFailure.Result.StandardError)
	case failure != nil:
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandLabel := strings.Join(strings.Fields(command.CommandLine), " ")

	maximumLabelLength := formatter.MaximumLabelLength
	if maximumLabelLength <= 0 {
		maximumLabelLength = defaultMaximumLabelLengthConstant
	}
	labelRunes := []rune(commandLabel)
	if len(labelRunes) > maximumLabelLength {
		commandLabel = string(labelRunes[:maximumLabelLength]) + truncatedLabelSuffixConstant
	}

	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandEventFormatter) formatWorkingDirectorySuffix(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandEventFormatter) formatStandardErrorSuffix(standardError string) string {
	standardErrorLines := strings.Split(strings.TrimSpace(standardError), "\n")
	for lineIndex := len(standardErrorLines) - 1; lineIndex >= 0; lineIndex-- {
		trimmedLine := strings.TrimSpace(standardErrorLines[lineIndex])
		if len(trimmedLine) > 0 {
			return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedLine)
		}
	}
	return emptyStringConstant
}

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
// When standard output is not streamed to the terminal, captured output is logged after a successful run.
type ConsoleCommandEventLogger struct {
	logger                *zap.Logger
	formatter             CommandEventFormatter
	surfaceStandardOutput bool
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// WithCapturedOutput controls whether captured standard output is logged on success.
func (eventLogger *ConsoleCommandEventLogger) WithCapturedOutput(enabled bool) *ConsoleCommandEventLogger {
	eventLogger.surfaceStandardOutput = enabled
	return eventLogger
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		if !eventLogger.surfaceStandardOutput {
			return
		}
		if outputMessage := eventLogger.formatter.BuildOutputMessage(command, result); len(outputMessage) > 0 {
			eventLogger.logger.Info(outputMessage)
		}
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
