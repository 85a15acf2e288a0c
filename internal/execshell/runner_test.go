package execshell_test

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/cdksynth/internal/execshell"
)

const (
	testRunnerSystemCaseNameConstant         = "system_shell"
	testRunnerEmbeddedCaseNameConstant       = "embedded_shell"
	testEnvironmentVariableNameConstant      = "CDKSYNTH_RUNNER_TEST_VALUE"
	testEnvironmentVariableValueConstant     = "inherited"
	testPrintEnvironmentCommandConstant      = `printf %s "$CDKSYNTH_RUNNER_TEST_VALUE"`
	testPrintWorkingDirectoryCommandConstant = "pwd"
	testFailingCommandConstant               = "echo failure 1>&2; exit 3"
	testVerboseCommandConstant               = "printf 0123456789abcdef"
	testStreamedCommandConstant              = "printf streamed"
	testStreamedOutputConstant               = "streamed"
	testOutputLimitConstant                  = 8
	testMissingDirectoryNameConstant         = "missing"
	testExpectedFailureExitCodeConstant      = 3
	testExpectedFailureStandardErrorConstant = "failure"
)

type runnerFactory func(configuration execshell.RunnerConfiguration) execshell.CommandRunner

func runnerFactories() []struct {
	name    string
	factory runnerFactory
} {
	return []struct {
		name    string
		factory runnerFactory
	}{
		{
			name: testRunnerSystemCaseNameConstant,
			factory: func(configuration execshell.RunnerConfiguration) execshell.CommandRunner {
				return execshell.NewOSCommandRunner(configuration)
			},
		},
		{
			name: testRunnerEmbeddedCaseNameConstant,
			factory: func(configuration execshell.RunnerConfiguration) execshell.CommandRunner {
				return execshell.NewEmbeddedCommandRunner(configuration)
			},
		},
	}
}

func skipWithoutPosixShell(testInstance *testing.T) {
	testInstance.Helper()
	if runtime.GOOS == "windows" {
		testInstance.Skip("runner tests rely on POSIX shell semantics")
	}
}

func TestRunnersInheritEnvironment(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)
	testInstance.Setenv(testEnvironmentVariableNameConstant, testEnvironmentVariableValueConstant)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			runner := runnerCase.factory(execshell.RunnerConfiguration{})
			executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{CommandLine: testPrintEnvironmentCommandConstant})
			require.NoError(testInstance, runError)
			require.Zero(testInstance, executionResult.ExitCode)
			require.Equal(testInstance, testEnvironmentVariableValueConstant, executionResult.StandardOutput)
		})
	}
}

func TestRunnersHonourWorkingDirectory(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			workingDirectory, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
			require.NoError(testInstance, resolveError)

			runner := runnerCase.factory(execshell.RunnerConfiguration{})
			executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
				CommandLine: testPrintWorkingDirectoryCommandConstant,
				Details:     execshell.CommandDetails{WorkingDirectory: workingDirectory},
			})
			require.NoError(testInstance, runError)

			reportedDirectory, reportedResolveError := filepath.EvalSymlinks(strings.TrimSpace(executionResult.StandardOutput))
			require.NoError(testInstance, reportedResolveError)
			require.Equal(testInstance, workingDirectory, reportedDirectory)
		})
	}
}

func TestRunnersReportExitCode(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			runner := runnerCase.factory(execshell.RunnerConfiguration{})
			executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{CommandLine: testFailingCommandConstant})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testExpectedFailureExitCodeConstant, executionResult.ExitCode)
			require.Equal(testInstance, testExpectedFailureStandardErrorConstant, strings.TrimSpace(executionResult.StandardError))
		})
	}
}

func TestRunnersEnforceOutputBufferLimit(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			runner := runnerCase.factory(execshell.RunnerConfiguration{})
			_, runError := runner.Run(context.Background(), execshell.ShellCommand{
				CommandLine: testVerboseCommandConstant,
				Details:     execshell.CommandDetails{OutputBufferLimit: testOutputLimitConstant},
			})
			require.ErrorIs(testInstance, runError, execshell.ErrOutputBufferExceeded)
		})
	}
}

func TestRunnersStreamOutputToSink(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			var outputSink bytes.Buffer
			runner := runnerCase.factory(execshell.RunnerConfiguration{StandardOutputSink: &outputSink})
			executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{CommandLine: testStreamedCommandConstant})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testStreamedOutputConstant, executionResult.StandardOutput)
			require.Equal(testInstance, testStreamedOutputConstant, outputSink.String())
		})
	}
}

func TestRunnersRejectInvalidInvocations(testInstance *testing.T) {
	skipWithoutPosixShell(testInstance)

	for _, runnerCase := range runnerFactories() {
		testInstance.Run(runnerCase.name, func(testInstance *testing.T) {
			runner := runnerCase.factory(execshell.RunnerConfiguration{})

			_, emptyError := runner.Run(context.Background(), execshell.ShellCommand{CommandLine: "  "})
			require.ErrorIs(testInstance, emptyError, execshell.ErrEmptyCommandLine)

			missingDirectory := filepath.Join(testInstance.TempDir(), testMissingDirectoryNameConstant)
			_, missingDirectoryError := runner.Run(context.Background(), execshell.ShellCommand{
				CommandLine: testPrintWorkingDirectoryCommandConstant,
				Details:     execshell.CommandDetails{WorkingDirectory: missingDirectory},
			})
			require.Error(testInstance, missingDirectoryError)
		})
	}
}

func TestCommandDetailsResolvedOutputBufferLimit(testInstance *testing.T) {
	require.Equal(testInstance, execshell.LargeOutputBufferBytes, execshell.CommandDetails{}.ResolvedOutputBufferLimit())
	require.Equal(testInstance, testOutputLimitConstant, execshell.CommandDetails{OutputBufferLimit: testOutputLimitConstant}.ResolvedOutputBufferLimit())
}
