package execshell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const (
	defaultPosixShellPathConstant       = "/bin/sh"
	posixShellCommandFlagConstant       = "-c"
	windowsOperatingSystemConstant      = "windows"
	windowsShellEnvironmentKeyConstant  = "ComSpec"
	defaultWindowsShellPathConstant     = "cmd.exe"
	windowsShellDisableAutoRunConstant  = "/d"
	windowsShellStripQuotesFlagConstant = "/s"
	windowsShellCommandFlagConstant     = "/c"
)

// RunnerConfiguration controls how runners spawn the shell and where live output goes.
type RunnerConfiguration struct {
	ShellPath          string
	StandardOutputSink io.Writer
	StandardErrorSink  io.Writer
}

// OSCommandRunner executes command lines through the operating system shell.
type OSCommandRunner struct {
	configuration RunnerConfiguration
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner(configuration RunnerConfiguration) *OSCommandRunner {
	return &OSCommandRunner{configuration: configuration}
}

// Run hands the command line to the shell in the requested working directory.
// The child inherits the current process environment unmodified.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(command.CommandLine)) == 0 {
		return ExecutionResult{}, ErrEmptyCommandLine
	}

	processContext, cancelProcess := context.WithCancel(executionContext)
	defer cancelProcess()

	shellPath, shellArguments := runner.resolveShell()
	commandArguments := append(append([]string{}, shellArguments...), command.CommandLine)
	executable := exec.CommandContext(processContext, shellPath, commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}
	executable.Env = os.Environ()

	outputLimit := command.Details.ResolvedOutputBufferLimit()
	standardOutputBuffer := newBoundedBuffer(outputLimit, cancelProcess)
	standardErrorBuffer := newBoundedBuffer(outputLimit, cancelProcess)
	executable.Stdout = teeToSink(standardOutputBuffer, runner.configuration.StandardOutputSink)
	executable.Stderr = teeToSink(standardErrorBuffer, runner.configuration.StandardErrorSink)

	runError := executable.Run()

	capturedResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	if standardOutputBuffer.Exceeded() || standardErrorBuffer.Exceeded() {
		return capturedResult, ErrOutputBufferExceeded
	}

	if runError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return capturedResult, contextError
		}
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			capturedResult.ExitCode = exitError.ExitCode()
			return capturedResult, nil
		}
		return ExecutionResult{}, runError
	}

	return capturedResult, nil
}

func (runner *OSCommandRunner) resolveShell() (string, []string) {
	if trimmedShellPath := strings.TrimSpace(runner.configuration.ShellPath); len(trimmedShellPath) > 0 {
		if runtime.GOOS == windowsOperatingSystemConstant {
			return trimmedShellPath, []string{windowsShellDisableAutoRunConstant, windowsShellStripQuotesFlagConstant, windowsShellCommandFlagConstant}
		}
		return trimmedShellPath, []string{posixShellCommandFlagConstant}
	}

	if runtime.GOOS == windowsOperatingSystemConstant {
		windowsShellPath := os.Getenv(windowsShellEnvironmentKeyConstant)
		if len(windowsShellPath) == 0 {
			windowsShellPath = defaultWindowsShellPathConstant
		}
		return windowsShellPath, []string{windowsShellDisableAutoRunConstant, windowsShellStripQuotesFlagConstant, windowsShellCommandFlagConstant}
	}

	return defaultPosixShellPathConstant, []string{posixShellCommandFlagConstant}
}

func teeToSink(buffer *boundedBuffer, sink io.Writer) io.Writer {
	if sink == nil {
		return buffer
	}
	return io.MultiWriter(buffer, sink)
}
