package ui_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/cdksynth/internal/execshell"
	"github.com/temirov/cdksynth/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant     = "/tmp/workspace"
	testCommandLineConstant                 = "node cdk.js synthesize   --context  env=dev"
	testCommandNameFieldExpectationConstant = "node cdk.js synthesize --context env=dev (in /tmp/workspace)"
	testExecutionFailureReasonConstant      = "output exceeded buffer limit"
	testStandardErrorMessageConstant        = "Subprocess exited with error 1\nError: stack not found\n\n"
	testStandardErrorLastLineConstant       = "Error: stack not found"
	testStartMessageExpectationConstant     = "Running " + testCommandNameFieldExpectationConstant
	testSuccessMessageExpectationConstant   = "Completed " + testCommandNameFieldExpectationConstant
	testFailureMessageExpectationConstant   = testCommandNameFieldExpectationConstant + " failed with exit code 1: " + testStandardErrorLastLineConstant
	testExecutionFailureMessageExpectation  = testCommandNameFieldExpectationConstant + " failed: " + testExecutionFailureReasonConstant
	testCapturedOutputCommandConstant       = "cdk synth"
	testCapturedStandardOutputConstant      = "Resources:\n  Bucket: AWS::S3::Bucket"
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		CommandLine: testCommandLineConstant,
		Details: execshell.CommandDetails{
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			consoleLogger := zap.New(observerCore)
			eventLogger := ui.NewConsoleCommandEventLogger(consoleLogger)

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestCommandEventFormatterTruncatesLongLabels(testInstance *testing.T) {
	formatter := ui.CommandEventFormatter{MaximumLabelLength: 8}
	command := execshell.ShellCommand{CommandLine: strings.Repeat("a", 20)}

	require.Equal(testInstance, "Running aaaaaaaa...", formatter.BuildStartedMessage(command))
}

func TestCommandEventFormatterFailureWithoutStandardError(testInstance *testing.T) {
	formatter := ui.CommandEventFormatter{}
	command := execshell.ShellCommand{CommandLine: "cdk synth"}

	require.Equal(testInstance, "cdk synth failed with exit code 2", formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 2, StandardError: " \n "}))
	require.Equal(testInstance, "cdk synth failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}

func TestConsoleCommandEventLoggerNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{})
		eventLogger.CommandCompleted(execshell.ShellCommand{}, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(execshell.ShellCommand{}, nil)
	})
}

func TestConsoleCommandEventLoggerCapturedOutput(testInstance *testing.T) {
	command := execshell.ShellCommand{CommandLine: testCapturedOutputCommandConstant}
	testCases := []struct {
		name             string
		surfaceOutput    bool
		standardOutput   string
		expectedMessages []string
	}{
		{
			name:             "output_surfaced_when_not_streamed",
			surfaceOutput:    true,
			standardOutput:   testCapturedStandardOutputConstant + "\n",
			expectedMessages: []string{"Completed cdk synth", "Output of cdk synth:\n" + testCapturedStandardOutputConstant},
		},
		{
			name:             "blank_output_skipped",
			surfaceOutput:    true,
			standardOutput:   " \n",
			expectedMessages: []string{"Completed cdk synth"},
		},
		{
			name:             "streamed_output_not_repeated",
			surfaceOutput:    false,
			standardOutput:   testCapturedStandardOutputConstant,
			expectedMessages: []string{"Completed cdk synth"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore)).WithCapturedOutput(testCase.surfaceOutput)

			eventLogger.CommandCompleted(command, execshell.ExecutionResult{StandardOutput: testCase.standardOutput})

			entries := observedLogs.All()
			require.Len(testInstance, entries, len(testCase.expectedMessages))
			for entryIndex, expectedMessage := range testCase.expectedMessages {
				require.Equal(testInstance, zapcore.InfoLevel, entries[entryIndex].Level)
				require.Equal(testInstance, expectedMessage, entries[entryIndex].Message)
			}
		})
	}
}

func TestCommandEventFormatterExecutionFailureIncludesCapturedStandardError(testInstance *testing.T) {
	formatter := ui.CommandEventFormatter{}
	command := execshell.ShellCommand{CommandLine: testCapturedOutputCommandConstant}
	failure := execshell.CommandExecutionError{
		Command: command,
		Cause:   execshell.ErrOutputBufferExceeded,
		Result:  execshell.ExecutionResult{StandardError: testStandardErrorMessageConstant},
	}

	require.Equal(
		testInstance,
		"cdk synth failed: output buffer limit exceeded: "+testStandardErrorLastLineConstant,
		formatter.BuildExecutionFailureMessage(command, failure),
	)
}
