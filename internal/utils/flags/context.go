// Package flags provides helpers for binding standardized workspace flags to Cobra commands.
package flags

import "github.com/spf13/cobra"

const (
	// WorkspaceRootFlagName exposes the shared workspace root flag name.
	WorkspaceRootFlagName = "workspace-root"
	// WorkspaceRootFlagUsage describes the shared workspace root flag purpose.
	WorkspaceRootFlagUsage = "Workspace root used as the working directory of the synthesized command"
	// WorkspaceFileFlagName exposes the shared workspace manifest flag name.
	WorkspaceFileFlagName = "workspace-file"
	// WorkspaceFileFlagUsage describes the shared workspace manifest flag purpose.
	WorkspaceFileFlagUsage = "Workspace manifest path, relative to the workspace root"
	// ProjectFlagName exposes the shared project flag name.
	ProjectFlagName = "project"
	// ProjectFlagShorthand provides the shorthand for the project flag.
	ProjectFlagShorthand = "p"
	// ProjectFlagUsage describes the shared project flag purpose.
	ProjectFlagUsage = "Workspace project to synthesize"
)

// WorkspaceFlagDefinition captures configuration for a single workspace flag.
type WorkspaceFlagDefinition struct {
	Name      string
	Shorthand string
	Usage     string
	Enabled   bool
}

// WorkspaceFlagDefinitions groups workspace flag definitions.
type WorkspaceFlagDefinitions struct {
	Root    WorkspaceFlagDefinition
	File    WorkspaceFlagDefinition
	Project WorkspaceFlagDefinition
}

// DefaultWorkspaceFlagDefinitions enables every workspace flag with its standard name.
func DefaultWorkspaceFlagDefinitions() WorkspaceFlagDefinitions {
	return WorkspaceFlagDefinitions{
		Root:    WorkspaceFlagDefinition{Name: WorkspaceRootFlagName, Usage: WorkspaceRootFlagUsage, Enabled: true},
		File:    WorkspaceFlagDefinition{Name: WorkspaceFileFlagName, Usage: WorkspaceFileFlagUsage, Enabled: true},
		Project: WorkspaceFlagDefinition{Name: ProjectFlagName, Shorthand: ProjectFlagShorthand, Usage: ProjectFlagUsage, Enabled: true},
	}
}

// WorkspaceFlagValues stores workspace flag values.
type WorkspaceFlagValues struct {
	Root    string
	File    string
	Project string
}

// BindWorkspaceFlags attaches workspace flags to the provided command's local flag set.
func BindWorkspaceFlags(command *cobra.Command, defaults WorkspaceFlagValues, definitions WorkspaceFlagDefinitions) *WorkspaceFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	flagSet := command.Flags()
	bindStringFlag := func(target *string, definition WorkspaceFlagDefinition, defaultValue string) {
		if !definition.Enabled || len(definition.Name) == 0 || flagSet.Lookup(definition.Name) != nil {
			return
		}
		flagSet.StringVarP(target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
	}

	bindStringFlag(&values.Root, definitions.Root, defaults.Root)
	bindStringFlag(&values.File, definitions.File, defaults.File)
	bindStringFlag(&values.Project, definitions.Project, defaults.Project)

	return &values
}

// Changed reports whether the named flag was explicitly provided on the command line.
func Changed(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	flag := command.Flags().Lookup(flagName)
	return flag != nil && flag.Changed
}
