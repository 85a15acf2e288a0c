package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const (
	testRunnerFlagNameConstant    = "runner"
	testRunnerDescriptionConstant = "Shell runner used to execute the synthesized command."
	testSystemChoiceConstant      = "system"
	testEmbeddedChoiceConstant    = "embedded"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  testSystemChoiceConstant,
			choices:        []string{testSystemChoiceConstant, testEmbeddedChoiceConstant},
			description:    testRunnerDescriptionConstant,
			expectedOutput: "`<SYSTEM|embedded>` " + testRunnerDescriptionConstant,
		},
		{
			name:           "default_second_choice",
			defaultChoice:  testEmbeddedChoiceConstant,
			choices:        []string{testSystemChoiceConstant, testEmbeddedChoiceConstant},
			description:    testRunnerDescriptionConstant,
			expectedOutput: "`<system|EMBEDDED>` " + testRunnerDescriptionConstant,
		},
		{
			name:           "empty_description",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<STRUCTURED|console>`",
		},
		{
			name:           "duplicate_and_mixed_case_choices_collapse",
			defaultChoice:  "Console",
			choices:        []string{"console", "CONSOLE", " structured "},
			description:    "Log output format.",
			expectedOutput: "`<CONSOLE|structured>` Log output format.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedOutput, actual)
		})
	}
}

func TestBindChoiceFlag(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue string
		expectError   bool
	}{
		{
			name:          "default_when_unset",
			arguments:     []string{},
			expectedValue: testSystemChoiceConstant,
		},
		{
			name:          "case_insensitive_choice",
			arguments:     []string{"--runner", " Embedded "},
			expectedValue: testEmbeddedChoiceConstant,
		},
		{
			name:        "unknown_choice_rejected",
			arguments:   []string{"--runner", "docker"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			flagSet := pflag.NewFlagSet(testCase.name, pflag.ContinueOnError)
			var runnerValue string
			BindChoiceFlag(flagSet, &runnerValue, testRunnerFlagNameConstant, testSystemChoiceConstant, []string{testSystemChoiceConstant, testEmbeddedChoiceConstant}, testRunnerDescriptionConstant)

			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				require.ErrorContains(testInstance, parseError, "expected one of system, embedded")
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedValue, runnerValue)

			storedValue, lookupError := flagSet.GetString(testRunnerFlagNameConstant)
			require.NoError(testInstance, lookupError)
			require.Equal(testInstance, testCase.expectedValue, storedValue)
			require.Equal(testInstance, "`<SYSTEM|embedded>` "+testRunnerDescriptionConstant, flagSet.Lookup(testRunnerFlagNameConstant).Usage)
		})
	}
}
