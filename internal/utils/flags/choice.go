package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choiceListOpenConstant            = "<"
	choiceListCloseConstant           = ">"
	choiceListSeparatorConstant       = "|"
	choiceUsageWithoutTextConstant    = "`%s`"
	choiceUsageWithTextConstant       = "`%s` %s"
	choiceValueTypeConstant           = "string"
	unsupportedChoiceTemplateConstant = "unsupported value %q, expected one of %s"
)

// ChoiceValue is a pflag.Value restricted to a fixed set of case-insensitive choices.
// Accepted values are stored in their canonical lower-case spelling.
type ChoiceValue struct {
	target  *string
	choices []string
}

// NewChoiceValue stores defaultChoice into target and returns a value accepting only choices.
func NewChoiceValue(target *string, defaultChoice string, choices []string) *ChoiceValue {
	*target = defaultChoice
	return &ChoiceValue{target: target, choices: canonicalChoices(choices)}
}

// String returns the current value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Set accepts a configured choice regardless of case and surrounding whitespace.
func (value *ChoiceValue) Set(rawValue string) error {
	candidate := canonicalChoice(rawValue)
	for _, choice := range value.choices {
		if choice == candidate {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplateConstant, rawValue, strings.Join(value.choices, ", "))
}

// Type reports string so that FlagSet.GetString keeps working for choice flags.
func (value *ChoiceValue) Type() string {
	return choiceValueTypeConstant
}

// BindChoiceFlag registers a choice-restricted string flag on flagSet.
func BindChoiceFlag(flagSet *pflag.FlagSet, target *string, flagName string, defaultChoice string, choices []string, description string) {
	flagSet.Var(NewChoiceValue(target, defaultChoice, choices), flagName, FormatChoiceUsage(defaultChoice, choices, description))
}

// FormatChoiceUsage renders `<a|B|c> description`, upper-casing the default choice.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	highlightedDefault := canonicalChoice(defaultChoice)
	displayedChoices := canonicalChoices(choices)
	for choiceIndex, choice := range displayedChoices {
		if choice == highlightedDefault {
			displayedChoices[choiceIndex] = strings.ToUpper(choice)
		}
	}

	choiceList := choiceListOpenConstant + strings.Join(displayedChoices, choiceListSeparatorConstant) + choiceListCloseConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageWithoutTextConstant, choiceList)
	}
	return fmt.Sprintf(choiceUsageWithTextConstant, choiceList, description)
}

func canonicalChoices(choices []string) []string {
	canonical := make([]string, 0, len(choices))
	for _, choice := range choices {
		normalizedChoice := canonicalChoice(choice)
		if len(normalizedChoice) == 0 || containsChoice(canonical, normalizedChoice) {
			continue
		}
		canonical = append(canonical, normalizedChoice)
	}
	return canonical
}

func canonicalChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}

func containsChoice(choices []string, candidate string) bool {
	for _, choice := range choices {
		if choice == candidate {
			return true
		}
	}
	return false
}
