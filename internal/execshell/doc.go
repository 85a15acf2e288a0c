// Package execshell provides structured helpers for invoking external tools
// through a shell command line.
//
// ShellExecutor wraps a CommandRunner with logging and lifecycle events.
// OSCommandRunner hands the command line to the system shell via os/exec, while
// EmbeddedCommandRunner interprets it in-process so hosts without a POSIX shell
// can still run the deployment CLI.
package execshell
