package execshell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	embeddedScriptNameConstant               = "command"
	embeddedParseErrorTemplateConstant       = "unable to parse command line: %w"
	embeddedInterpreterErrorTemplateConstant = "unable to create shell interpreter: %w"
)

// EmbeddedCommandRunner interprets command lines with an in-process POSIX shell.
// External programs named by the command line are still spawned as child processes.
type EmbeddedCommandRunner struct {
	configuration RunnerConfiguration
}

// NewEmbeddedCommandRunner constructs a runner backed by mvdan.cc/sh.
func NewEmbeddedCommandRunner(configuration RunnerConfiguration) *EmbeddedCommandRunner {
	return &EmbeddedCommandRunner{configuration: configuration}
}

// Run parses and interprets the command line in the requested working directory.
func (runner *EmbeddedCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(command.CommandLine)) == 0 {
		return ExecutionResult{}, ErrEmptyCommandLine
	}

	program, parseError := syntax.NewParser().Parse(strings.NewReader(command.CommandLine), embeddedScriptNameConstant)
	if parseError != nil {
		return ExecutionResult{}, fmt.Errorf(embeddedParseErrorTemplateConstant, parseError)
	}

	interpreterContext, cancelInterpreter := context.WithCancel(executionContext)
	defer cancelInterpreter()

	outputLimit := command.Details.ResolvedOutputBufferLimit()
	standardOutputBuffer := newBoundedBuffer(outputLimit, cancelInterpreter)
	standardErrorBuffer := newBoundedBuffer(outputLimit, cancelInterpreter)

	interpreterOptions := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, teeToSink(standardOutputBuffer, runner.configuration.StandardOutputSink), teeToSink(standardErrorBuffer, runner.configuration.StandardErrorSink)),
	}
	if len(command.Details.WorkingDirectory) > 0 {
		interpreterOptions = append(interpreterOptions, interp.Dir(command.Details.WorkingDirectory))
	}

	interpreter, interpreterError := interp.New(interpreterOptions...)
	if interpreterError != nil {
		return ExecutionResult{}, fmt.Errorf(embeddedInterpreterErrorTemplateConstant, interpreterError)
	}

	runError := interpreter.Run(interpreterContext, program)

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
		var exitStatus interp.ExitStatus
		if errors.As(runError, &exitStatus) {
			capturedResult.ExitCode = int(exitStatus)
			return capturedResult, nil
		}
		return ExecutionResult{}, runError
	}

	return capturedResult, nil
}
