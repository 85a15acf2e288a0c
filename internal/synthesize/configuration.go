package synthesize

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/temirov/cdksynth/internal/execshell"
)

const (
	// RunnerSystem executes command lines through the operating system shell.
	RunnerSystem = "system"
	// RunnerEmbedded executes command lines through the in-process shell interpreter.
	RunnerEmbedded = "embedded"

	defaultWorkspaceRootConstant             = "."
	defaultWorkspaceFileConstant             = "workspace.yaml"
	defaultTargetConstant                    = "synth"
	defaultCLICommandConstant                = "node node_modules/aws-cdk/bin/cdk.js"
	defaultAppCommandConstant                = "npx ts-node --prefer-ts-exts {sourceRoot}/main.ts"
	configurationKeySeparatorConstant        = "."
	workspaceRootConfigurationKeyConstant    = "workspace_root"
	workspaceFileConfigurationKeyConstant    = "workspace_file"
	targetConfigurationKeyConstant           = "target"
	cliCommandConfigurationKeyConstant       = "cli_command"
	appCommandConfigurationKeyConstant       = "app_command"
	runnerConfigurationKeyConstant           = "runner"
	outputBufferConfigurationKeyConstant     = "output_buffer_bytes"
	environmentFilesConfigurationKeyConstant = "environment_files"
	streamOutputConfigurationKeyConstant     = "stream_output"
	invalidConfigurationTemplateConstant     = "invalid synthesize configuration: %w"
)

var (
	defaultEnvironmentFiles = []string{".env", ".local.env"}

	configurationValidator     *validator.Validate
	configurationValidatorOnce sync.Once
)

// Configuration captures configuration values for the synth command.
type Configuration struct {
	WorkspaceRoot     string         `mapstructure:"workspace_root" validate:"required"`
	WorkspaceFile     string         `mapstructure:"workspace_file" validate:"required"`
	Project           string         `mapstructure:"project"`
	Target            string         `mapstructure:"target" validate:"required"`
	CLICommand        string         `mapstructure:"cli_command" validate:"required"`
	AppCommand        string         `mapstructure:"app_command"`
	Runner            string         `mapstructure:"runner" validate:"oneof=system embedded"`
	Shell             string         `mapstructure:"shell"`
	OutputBufferBytes int            `mapstructure:"output_buffer_bytes" validate:"gt=0"`
	EnvironmentFiles  []string       `mapstructure:"environment_files"`
	StreamOutput      bool           `mapstructure:"stream_output"`
	Options           map[string]any `mapstructure:"options"`
}

// DefaultConfiguration provides baseline configuration values for the synth command.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkspaceRoot:     defaultWorkspaceRootConstant,
		WorkspaceFile:     defaultWorkspaceFileConstant,
		Target:            defaultTargetConstant,
		CLICommand:        defaultCLICommandConstant,
		AppCommand:        defaultAppCommandConstant,
		Runner:            RunnerSystem,
		OutputBufferBytes: execshell.LargeOutputBufferBytes,
		EnvironmentFiles:  append([]string{}, defaultEnvironmentFiles...),
		StreamOutput:      true,
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + workspaceRootConfigurationKeyConstant:    defaults.WorkspaceRoot,
		prefix + configurationKeySeparatorConstant + workspaceFileConfigurationKeyConstant:    defaults.WorkspaceFile,
		prefix + configurationKeySeparatorConstant + targetConfigurationKeyConstant:           defaults.Target,
		prefix + configurationKeySeparatorConstant + cliCommandConfigurationKeyConstant:       defaults.CLICommand,
		prefix + configurationKeySeparatorConstant + appCommandConfigurationKeyConstant:       defaults.AppCommand,
		prefix + configurationKeySeparatorConstant + runnerConfigurationKeyConstant:           defaults.Runner,
		prefix + configurationKeySeparatorConstant + outputBufferConfigurationKeyConstant:     defaults.OutputBufferBytes,
		prefix + configurationKeySeparatorConstant + environmentFilesConfigurationKeyConstant: defaults.EnvironmentFiles,
		prefix + configurationKeySeparatorConstant + streamOutputConfigurationKeyConstant:     defaults.StreamOutput,
	}
}

// Validate reports configuration values that cannot drive an execution.
func (configuration Configuration) Validate() error {
	if validationError := resolveConfigurationValidator().Struct(configuration.sanitize()); validationError != nil {
		return fmt.Errorf(invalidConfigurationTemplateConstant, validationError)
	}
	return nil
}

// ExecutorSettings derives executor settings from the configuration.
func (configuration Configuration) ExecutorSettings() ExecutorSettings {
	sanitized := configuration.sanitize()
	return ExecutorSettings{
		BaseCommand: BaseCommandConfiguration{
			CLICommand:         sanitized.CLICommand,
			AppCommandTemplate: sanitized.AppCommand,
		},
		OutputBufferLimit: sanitized.OutputBufferBytes,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration

	sanitized.WorkspaceRoot = strings.TrimSpace(configuration.WorkspaceRoot)
	sanitized.WorkspaceFile = strings.TrimSpace(configuration.WorkspaceFile)
	sanitized.Project = strings.TrimSpace(configuration.Project)
	sanitized.Target = strings.TrimSpace(configuration.Target)
	sanitized.CLICommand = strings.TrimSpace(configuration.CLICommand)
	sanitized.AppCommand = strings.TrimSpace(configuration.AppCommand)
	sanitized.Runner = strings.ToLower(strings.TrimSpace(configuration.Runner))
	sanitized.Shell = strings.TrimSpace(configuration.Shell)
	sanitized.EnvironmentFiles = sanitizeEntries(configuration.EnvironmentFiles)

	return sanitized
}

func sanitizeEntries(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

func resolveConfigurationValidator() *validator.Validate {
	configurationValidatorOnce.Do(func() {
		configurationValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return configurationValidator
}
