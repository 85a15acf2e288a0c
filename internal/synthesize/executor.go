package synthesize

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cdksynth/internal/execshell"
)

const (
	loggerNotConfiguredMessageConstant        = "synthesize executor requires a logger"
	shellExecutorNotConfiguredMessageConstant = "synthesize executor requires a shell executor"
	projectRootMissingMessageConstant         = "execution context does not define a project root"
	synthesisSucceededMessageConstant         = "synthesis succeeded"
	synthesisFailedMessageConstant            = "synthesis failed"
	logFieldProjectNameConstant               = "project"
	logFieldProjectRootConstant               = "root"
)

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrShellExecutorNotConfigured indicates the executor was constructed without a shell executor.
	ErrShellExecutorNotConfigured = errors.New(shellExecutorNotConfiguredMessageConstant)
	// ErrProjectRootMissing indicates the execution context lacks a working directory.
	ErrProjectRootMissing = errors.New(projectRootMissingMessageConstant)
)

// ExecutionContext identifies the project being synthesized. It is supplied by the caller and never modified.
// Root is the working directory of the child process; ProjectRoot and SourceRoot are relative to it.
type ExecutionContext struct {
	ProjectName string
	Root        string
	ProjectRoot string
	SourceRoot  string
}

// Result reports whether synthesis succeeded.
type Result struct {
	Success bool
}

// ShellExecutor runs rendered command lines.
type ShellExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ExecutorSettings configures command rendering and output capture.
type ExecutorSettings struct {
	BaseCommand       BaseCommandConfiguration
	OutputBufferLimit int
}

// Executor renders synthesize command lines and runs them in the project root.
type Executor struct {
	logger        *zap.Logger
	shellExecutor ShellExecutor
	settings      ExecutorSettings
}

// NewExecutor constructs an Executor.
func NewExecutor(logger *zap.Logger, shellExecutor ShellExecutor, settings ExecutorSettings) (*Executor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if shellExecutor == nil {
		return nil, ErrShellExecutorNotConfigured
	}
	return &Executor{logger: logger, shellExecutor: shellExecutor, settings: settings}, nil
}

// CommandLine renders the full synthesize command line for the options and execution context.
func (executor *Executor) CommandLine(options Options, executionContext ExecutionContext) string {
	baseCommand := BaseCommand(executor.settings.BaseCommand, SynthesizeSubcommandName, executionContext)
	return RenderCommand(baseCommand, options)
}

// Run synthesizes the project. Any execution failure, whether a non-zero exit or
// a failure to spawn, resolves to Result{Success: false} with a nil error.
// An error is returned only when the execution context cannot be used.
func (executor *Executor) Run(executionContext context.Context, options Options, projectContext ExecutionContext) (Result, error) {
	trimmedRoot := strings.TrimSpace(projectContext.Root)
	if len(trimmedRoot) == 0 {
		return Result{}, ErrProjectRootMissing
	}

	shellCommand := execshell.ShellCommand{
		CommandLine: executor.CommandLine(options, projectContext),
		Details: execshell.CommandDetails{
			WorkingDirectory:  trimmedRoot,
			OutputBufferLimit: executor.settings.OutputBufferLimit,
		},
	}

	_, executionError := executor.shellExecutor.Execute(executionContext, shellCommand)
	if executionError != nil {
		executor.logger.Warn(
			synthesisFailedMessageConstant,
			zap.String(logFieldProjectNameConstant, projectContext.ProjectName),
			zap.String(logFieldProjectRootConstant, trimmedRoot),
			zap.Error(executionError),
		)
		return Result{Success: false}, nil
	}

	executor.logger.Info(
		synthesisSucceededMessageConstant,
		zap.String(logFieldProjectNameConstant, projectContext.ProjectName),
		zap.String(logFieldProjectRootConstant, trimmedRoot),
	)
	return Result{Success: true}, nil
}
