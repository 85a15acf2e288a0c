package execshell

import "context"

const (
	// LargeOutputBufferBytes is the default ceiling for captured standard output and standard error.
	LargeOutputBufferBytes = 1024 * 1000000
)

// CommandDetails describes where and how a shell command line runs.
type CommandDetails struct {
	WorkingDirectory  string
	OutputBufferLimit int
}

// ShellCommand is a fully rendered command line plus its execution details.
type ShellCommand struct {
	CommandLine string
	Details     CommandDetails
}

// ExecutionResult captures the observable results of running a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ResolvedOutputBufferLimit returns the configured output ceiling or LargeOutputBufferBytes when unset.
func (details CommandDetails) ResolvedOutputBufferLimit() int {
	if details.OutputBufferLimit <= 0 {
		return LargeOutputBufferBytes
	}
	return details.OutputBufferLimit
}
