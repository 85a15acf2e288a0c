package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/cdksynth/internal/execshell"
	"github.com/temirov/cdksynth/internal/synthesize"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testWorkspaceManifestConstant     = "projects:\n  infra:\n    root: apps/infra\n    sourceRoot: apps/infra/src\n"
	testConfigurationTemplateConstant = "common:\n  log_level: error\ntools:\n  synthesize:\n    workspace_root: %s\n    cli_command: %s\n    app_command: \"\"\n"
	testRunnerEnvironmentNameConstant = "CDKSYNTH_TOOLS_SYNTHESIZE_RUNNER"
	testSystemShellPathConstant       = "/bin/sh"
)

func TestApplicationLoadsEmbeddedDefaults(t *testing.T) {
	application := NewApplication()
	application.configurationFilePath = ""
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	require.NoError(t, application.initializeConfiguration(rootCommand))

	synthesizeConfiguration := application.configuration.Tools.Synthesize
	require.Equal(t, synthesize.DefaultConfiguration().CLICommand, synthesizeConfiguration.CLICommand)
	require.Equal(t, synthesize.RunnerSystem, synthesizeConfiguration.Runner)
	require.Equal(t, "synth", synthesizeConfiguration.Target)
	require.Equal(t, execshell.LargeOutputBufferBytes, synthesizeConfiguration.OutputBufferBytes)
	require.Equal(t, []string{".env", ".local.env"}, synthesizeConfiguration.EnvironmentFiles)
	require.True(t, synthesizeConfiguration.StreamOutput)
	require.NoError(t, synthesizeConfiguration.Validate())
	require.Equal(t, "info", application.configuration.Common.LogLevel)
	require.False(t, application.humanReadableLoggingEnabled())
}

func TestApplicationConfigurationFileAndEnvironmentOverrides(t *testing.T) {
	workspaceRoot := t.TempDir()
	configurationPath := writeApplicationConfiguration(t, workspaceRoot, "cdk")
	t.Setenv(testRunnerEnvironmentNameConstant, synthesize.RunnerEmbedded)

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(t, rootCommand.PersistentFlags().Set(configFileFlagNameConstant, configurationPath))
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	require.NoError(t, application.initializeConfiguration(rootCommand))

	synthesizeConfiguration := application.configuration.Tools.Synthesize
	require.Equal(t, workspaceRoot, synthesizeConfiguration.WorkspaceRoot)
	require.Equal(t, "cdk", synthesizeConfiguration.CLICommand)
	require.Empty(t, synthesizeConfiguration.AppCommand)
	require.Equal(t, synthesize.RunnerEmbedded, synthesizeConfiguration.Runner)
	require.Equal(t, "error", application.configuration.Common.LogLevel)
	require.True(t, application.humanReadableLoggingEnabled())

	configurationFilePath, available := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
	require.True(t, available)
	require.Equal(t, configurationPath, configurationFilePath)
}

func TestApplicationRejectsInvalidLogLevel(t *testing.T) {
	application := NewApplication()
	application.rootCommand.SetArgs([]string{"--log-level", "verbose", "synth"})
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})

	require.Error(t, application.ExecuteContext(context.Background()))
}

func TestApplicationRunsSynthCommand(t *testing.T) {
	if _, statError := os.Stat(testSystemShellPathConstant); statError != nil {
		t.Skip("system shell unavailable")
	}

	testCases := []struct {
		name           string
		cliCommand     string
		arguments      []string
		expectedOutput string
		expectError    bool
	}{
		{
			name:           "success_streams_output",
			cliCommand:     "echo",
			arguments:      []string{"synth", "NetworkStack", "--context", "env=dev"},
			expectedOutput: "synthesize NetworkStack --context env=dev\n",
		},
		{
			name:           "alias_runs_synth",
			cliCommand:     "echo",
			arguments:      []string{"synthesize", "--option", "quiet"},
			expectedOutput: "synthesize --quiet true\n",
		},
		{
			name:        "non_zero_exit_fails",
			cliCommand:  "false",
			arguments:   []string{"synth"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workspaceRoot := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(workspaceRoot, "workspace.yaml"), []byte(testWorkspaceManifestConstant), 0o600))
			configurationPath := writeApplicationConfiguration(t, workspaceRoot, testCase.cliCommand)

			application := NewApplication()
			outputBuffer := &bytes.Buffer{}
			application.rootCommand.SetOut(outputBuffer)
			application.rootCommand.SetErr(&bytes.Buffer{})
			application.rootCommand.SetArgs(append([]string{"--config", configurationPath}, testCase.arguments...))

			executionError := application.ExecuteContext(context.Background())
			if testCase.expectError {
				require.EqualError(t, executionError, "synthesis failed for project infra")
				return
			}
			require.NoError(t, executionError)
			require.Equal(t, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestEmbeddedDefaultConfigurationReturnsCopy(t *testing.T) {
	firstContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(t, configurationTypeConstant, configurationType)
	require.NotEmpty(t, firstContent)

	firstContent[0] = '#'
	secondContent, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(t, firstContent[0], secondContent[0])
}

func writeApplicationConfiguration(t *testing.T, workspaceRoot string, cliCommand string) string {
	t.Helper()
	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	configurationContent := fmt.Sprintf(testConfigurationTemplateConstant, workspaceRoot, cliCommand)
	require.NoError(t, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))
	return configurationPath
}
