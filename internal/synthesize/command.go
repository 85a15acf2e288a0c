package synthesize

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/cdksynth/internal/execshell"
	"github.com/temirov/cdksynth/internal/ui"
	"github.com/temirov/cdksynth/internal/utils"
	"github.com/temirov/cdksynth/internal/utils/flags"
	pathutils "github.com/temirov/cdksynth/internal/utils/path"
	"github.com/temirov/cdksynth/internal/workspace"
)

const (
	commandUseConstant                        = "synth [stacks...]"
	commandAliasConstant                      = "synthesize"
	commandShortDescriptionConstant           = "Synthesize CDK stacks for a workspace project"
	commandLongDescriptionConstant            = "synth renders a cdk synthesize command line for a workspace project and runs it from the workspace root. Positional arguments name the stacks to synthesize."
	flagContextNameConstant                   = "context"
	flagContextShorthandConstant              = "c"
	flagContextDescriptionConstant            = "Context value passed as --context (repeatable)"
	flagOptionNameConstant                    = "option"
	flagOptionShorthandConstant               = "o"
	flagOptionDescriptionConstant             = "Additional synthesize option as key=value; a bare key sets a true flag (repeatable)"
	flagRunnerNameConstant                    = "runner"
	flagRunnerDescriptionConstant             = "Shell runner used to execute the synthesized command."
	flagTargetNameConstant                    = "target"
	flagTargetDescriptionConstant             = "Workspace target whose options are applied"
	workspaceRootResolveErrorTemplateConstant = "unable to resolve workspace root %s: %w"
	environmentFilesErrorTemplateConstant     = "unable to load environment files: %w"
	projectResolutionErrorTemplateConstant    = "unable to resolve workspace project: %w"
	configurationOptionsErrorTemplateConstant = "invalid configured options: %w"
	targetOptionsErrorTemplateConstant        = "invalid options for target %s: %w"
	commandLineOptionsErrorTemplateConstant   = "invalid --option value: %w"
	synthesisFailedTemplateConstant           = "synthesis failed for project %s"
	environmentFilesLoadedMessageConstant     = "environment files loaded"
	logFieldInvocationIdentifierConstant      = "invocation_id"
	logFieldEnvironmentFilesConstant          = "files"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the synth configuration loaded from Viper.
type ConfigurationProvider func() Configuration

// HumanReadableLoggingProvider reports whether console-oriented command events should be rendered.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the synth Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Runner                       execshell.CommandRunner
	EnvironmentLoader            *utils.EnvironmentFileLoader
	HomeExpander                 *pathutils.HomeExpander
}

type commandInputs struct {
	configuration Configuration
	stacks        []string
	contexts      []string
	optionEntries []string
}

// Build constructs the synth command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultConfiguration()

	command := &cobra.Command{
		Use:     commandUseConstant,
		Aliases: []string{commandAliasConstant},
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
	}

	workspaceFlags := flags.BindWorkspaceFlags(command, flags.WorkspaceFlagValues{
		Root:    defaults.WorkspaceRoot,
		File:    defaults.WorkspaceFile,
		Project: defaults.Project,
	}, flags.DefaultWorkspaceFlagDefinitions())

	command.Flags().StringArrayP(flagContextNameConstant, flagContextShorthandConstant, nil, flagContextDescriptionConstant)
	command.Flags().StringArrayP(flagOptionNameConstant, flagOptionShorthandConstant, nil, flagOptionDescriptionConstant)
	flags.BindChoiceFlag(command.Flags(), new(string), flagRunnerNameConstant, defaults.Runner, []string{RunnerSystem, RunnerEmbedded}, flagRunnerDescriptionConstant)
	command.Flags().String(flagTargetNameConstant, defaults.Target, flagTargetDescriptionConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, workspaceFlags)
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, workspaceFlags *flags.WorkspaceFlagValues) error {
	inputs := builder.parseInputs(command, arguments, workspaceFlags)
	if validationError := inputs.configuration.Validate(); validationError != nil {
		return validationError
	}
	configuration := inputs.configuration.sanitize()

	accessor := utils.NewCommandContextAccessor()
	executionContext := accessor.WithInvocationIdentifier(command.Context())
	invocationIdentifier, _ := accessor.InvocationIdentifier(executionContext)
	logger := builder.resolveLogger().With(zap.String(logFieldInvocationIdentifierConstant, invocationIdentifier))

	workspaceRoot, rootError := builder.resolveHomeExpander().ResolveDirectory(configuration.WorkspaceRoot)
	if rootError != nil {
		return fmt.Errorf(workspaceRootResolveErrorTemplateConstant, configuration.WorkspaceRoot, rootError)
	}

	loadedFiles, environmentError := builder.resolveEnvironmentLoader().Load(workspaceRoot, configuration.EnvironmentFiles)
	if environmentError != nil {
		return fmt.Errorf(environmentFilesErrorTemplateConstant, environmentError)
	}
	if len(loadedFiles) > 0 {
		logger.Debug(environmentFilesLoadedMessageConstant, zap.Strings(logFieldEnvironmentFilesConstant, loadedFiles))
	}

	project, projectError := resolveProject(workspaceRoot, configuration)
	if projectError != nil {
		return fmt.Errorf(projectResolutionErrorTemplateConstant, projectError)
	}

	options, optionsError := buildOptions(configuration, project, inputs)
	if optionsError != nil {
		return optionsError
	}

	shellExecutor, shellExecutorError := builder.resolveShellExecutor(logger, configuration, command)
	if shellExecutorError != nil {
		return shellExecutorError
	}

	executor, executorError := NewExecutor(logger, shellExecutor, configuration.ExecutorSettings())
	if executorError != nil {
		return executorError
	}

	result, runError := executor.Run(executionContext, options, ExecutionContext{
		ProjectName: project.Name,
		Root:        workspaceRoot,
		ProjectRoot: project.Root,
		SourceRoot:  project.SourceRoot,
	})
	if runError != nil {
		return runError
	}
	if !result.Success {
		return fmt.Errorf(synthesisFailedTemplateConstant, project.Name)
	}
	return nil
}

// parseInputs overlays explicitly provided flags on the configured values.
func (builder *CommandBuilder) parseInputs(command *cobra.Command, arguments []string, workspaceFlags *flags.WorkspaceFlagValues) commandInputs {
	configuration := builder.resolveConfiguration()

	if flags.Changed(command, flags.WorkspaceRootFlagName) {
		configuration.WorkspaceRoot = workspaceFlags.Root
	}
	if flags.Changed(command, flags.WorkspaceFileFlagName) {
		configuration.WorkspaceFile = workspaceFlags.File
	}
	if flags.Changed(command, flags.ProjectFlagName) {
		configuration.Project = workspaceFlags.Project
	}
	if flags.Changed(command, flagRunnerNameConstant) {
		configuration.Runner, _ = command.Flags().GetString(flagRunnerNameConstant)
	}
	if flags.Changed(command, flagTargetNameConstant) {
		configuration.Target, _ = command.Flags().GetString(flagTargetNameConstant)
	}

	contexts, _ := command.Flags().GetStringArray(flagContextNameConstant)
	optionEntries, _ := command.Flags().GetStringArray(flagOptionNameConstant)

	return commandInputs{
		configuration: configuration,
		stacks:        sanitizeEntries(arguments),
		contexts:      sanitizeEntries(contexts),
		optionEntries: optionEntries,
	}
}

func resolveProject(workspaceRoot string, configuration Configuration) (workspace.Project, error) {
	manifestPath := configuration.WorkspaceFile
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(workspaceRoot, manifestPath)
	}

	manifest, manifestError := workspace.LoadManifest(manifestPath)
	if manifestError != nil {
		return workspace.Project{}, manifestError
	}
	return manifest.ResolveProject(configuration.Project)
}

// buildOptions merges configured options, target options, --option entries, and
// the positional stacks and --context values, later sources winning.
func buildOptions(configuration Configuration, project workspace.Project, inputs commandInputs) (Options, error) {
	configuredOptions, configuredError := DecodeOptions(configuration.Options)
	if configuredError != nil {
		return nil, fmt.Errorf(configurationOptionsErrorTemplateConstant, configuredError)
	}

	targetOptions, targetError := DecodeOptions(project.TargetOptions(configuration.Target))
	if targetError != nil {
		return nil, fmt.Errorf(targetOptionsErrorTemplateConstant, configuration.Target, targetError)
	}

	assignedOptions, assignmentError := ParseOptionAssignments(inputs.optionEntries)
	if assignmentError != nil {
		return nil, fmt.Errorf(commandLineOptionsErrorTemplateConstant, assignmentError)
	}

	flagOptions := Options{}
	if len(inputs.stacks) > 0 {
		flagOptions[StacksOptionName] = ManyOption(inputs.stacks...)
	}
	if len(inputs.contexts) > 0 {
		flagOptions[ContextOptionName] = ManyOption(inputs.contexts...)
	}

	return configuredOptions.Merge(targetOptions).Merge(assignedOptions).Merge(flagOptions), nil
}

func (builder *CommandBuilder) resolveShellExecutor(logger *zap.Logger, configuration Configuration, command *cobra.Command) (ShellExecutor, error) {
	runner := builder.Runner
	if runner == nil {
		runnerConfiguration := execshell.RunnerConfiguration{ShellPath: configuration.Shell}
		if configuration.StreamOutput {
			runnerConfiguration.StandardOutputSink, runnerConfiguration.StandardErrorSink = resolveSinks(command.OutOrStdout(), command.ErrOrStderr())
		}
		switch configuration.Runner {
		case RunnerEmbedded:
			runner = execshell.NewEmbeddedCommandRunner(runnerConfiguration)
		default:
			runner = execshell.NewOSCommandRunner(runnerConfiguration)
		}
	}

	var observer execshell.CommandEventObserver = execshell.NewStructuredCommandEventLogger(logger)
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observer = ui.NewConsoleCommandEventLogger(logger).WithCapturedOutput(!configuration.StreamOutput)
	}

	return execshell.NewShellExecutorWithObserver(logger, runner, observer)
}

// resolveSinks wraps output writers so that concurrent stdout and stderr copies never interleave mid-write.
func resolveSinks(standardOutput io.Writer, standardError io.Writer) (io.Writer, io.Writer) {
	synchronizedOutput := utils.NewSynchronizedWriter(standardOutput)
	if standardError == standardOutput {
		return synchronizedOutput, synchronizedOutput
	}
	return synchronizedOutput, utils.NewSynchronizedWriter(standardError)
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	configuration := builder.ConfigurationProvider()
	if len(strings.TrimSpace(configuration.Target)) == 0 {
		configuration.Target = defaultTargetConstant
	}
	return configuration
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveEnvironmentLoader() *utils.EnvironmentFileLoader {
	if builder.EnvironmentLoader != nil {
		return builder.EnvironmentLoader
	}
	return utils.NewEnvironmentFileLoader()
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
}
