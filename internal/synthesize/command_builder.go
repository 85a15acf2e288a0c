package synthesize

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// SynthesizeSubcommandName is the CDK subcommand the executor invokes.
	SynthesizeSubcommandName = "synthesize"
	// StacksOptionName is consumed positionally instead of being rendered as a flag.
	StacksOptionName = "stacks"
	// ContextOptionName renders one --context flag per entry.
	ContextOptionName = "context"

	flagPrefixConstant               = "--"
	tokenSeparatorConstant           = " "
	appFlagTemplateConstant          = `-a "%s"`
	workspaceRootPlaceholderConstant = "{workspaceRoot}"
	projectRootPlaceholderConstant   = "{projectRoot}"
	sourceRootPlaceholderConstant    = "{sourceRoot}"
	projectNamePlaceholderConstant   = "{projectName}"
	kebabSeparatorConstant           = '-'
)

// recognizedFlagOrder lists the synthesize flags in the order they are rendered.
var recognizedFlagOrder = []string{
	"app",
	"output",
	"exclusively",
	"validation",
	"quiet",
	"profile",
	"role-arn",
	"lookups",
	"strict",
	"ignore-errors",
	"json",
	"verbose",
	"debug",
	"trace",
	"ci",
	"staging",
	"path-metadata",
	"asset-metadata",
	"version-reporting",
	"plugin",
}

// RecognizedFlags returns the synthesize flags in rendering order.
func RecognizedFlags() []string {
	return append([]string{}, recognizedFlagOrder...)
}

// BaseCommandConfiguration describes how the CDK CLI and the CDK app are invoked.
type BaseCommandConfiguration struct {
	CLICommand         string
	AppCommandTemplate string
}

// BaseCommand renders `<cli> -a "<app>" <subcommand>` for the project described by executionContext.
// The -a segment is omitted when no app command template is configured.
func BaseCommand(configuration BaseCommandConfiguration, subcommand string, executionContext ExecutionContext) string {
	commandTokens := make([]string, 0, 3)
	commandTokens = appendToken(commandTokens, configuration.CLICommand)

	appCommand := strings.TrimSpace(expandPlaceholders(configuration.AppCommandTemplate, executionContext))
	if len(appCommand) > 0 {
		commandTokens = append(commandTokens, fmt.Sprintf(appFlagTemplateConstant, appCommand))
	}

	commandTokens = appendToken(commandTokens, subcommand)
	return strings.Join(commandTokens, tokenSeparatorConstant)
}

// RenderCommand appends options to the base command.
//
// Token order is fixed: stacks as bare positional tokens, one --context per
// context entry in input order, recognized flags in RecognizedFlags order, then
// any remaining keys as pass-through flags sorted by name. Values are joined
// with single spaces and are not quoted or escaped, so callers must supply
// shell-safe values.
func RenderCommand(base string, options Options) string {
	commandTokens := appendToken(nil, base)
	flagValues := options.Normalized()

	for _, stackName := range flagValues.Get(StacksOptionName).Tokens() {
		commandTokens = appendToken(commandTokens, stackName)
	}
	commandTokens = appendFlagTokens(commandTokens, ContextOptionName, flagValues.Get(ContextOptionName))
	delete(flagValues, StacksOptionName)
	delete(flagValues, ContextOptionName)

	for _, flagName := range recognizedFlagOrder {
		commandTokens = appendFlagTokens(commandTokens, flagName, flagValues[flagName])
		delete(flagValues, flagName)
	}

	for _, flagName := range flagValues.sortedNames() {
		commandTokens = appendFlagTokens(commandTokens, flagName, flagValues[flagName])
	}

	return strings.Join(commandTokens, tokenSeparatorConstant)
}

func normalizeOptionName(optionName string) string {
	return toKebabCase(strings.TrimSpace(optionName))
}

func appendFlagTokens(commandTokens []string, flagName string, value OptionValue) []string {
	for _, valueToken := range value.Tokens() {
		trimmedValue := strings.TrimSpace(valueToken)
		if len(trimmedValue) == 0 {
			continue
		}
		commandTokens = append(commandTokens, flagPrefixConstant+flagName, trimmedValue)
	}
	return commandTokens
}

func appendToken(commandTokens []string, token string) []string {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return commandTokens
	}
	return append(commandTokens, trimmedToken)
}

func expandPlaceholders(template string, executionContext ExecutionContext) string {
	replacer := strings.NewReplacer(
		workspaceRootPlaceholderConstant, executionContext.Root,
		projectRootPlaceholderConstant, executionContext.ProjectRoot,
		sourceRootPlaceholderConstant, executionContext.SourceRoot,
		projectNamePlaceholderConstant, executionContext.ProjectName,
	)
	return replacer.Replace(template)
}

// toKebabCase converts camelCase option names such as roleArn to role-arn.
func toKebabCase(optionName string) string {
	var builder strings.Builder
	for runeIndex, character := range optionName {
		if unicode.IsUpper(character) {
			if runeIndex > 0 {
				builder.WriteRune(kebabSeparatorConstant)
			}
			builder.WriteRune(unicode.ToLower(character))
			continue
		}
		builder.WriteRune(character)
	}
	return builder.String()
}
