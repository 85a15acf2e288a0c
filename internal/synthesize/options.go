package synthesize

import (
	"sort"
	"strconv"
)

// OptionKind identifies which variant an OptionValue holds.
type OptionKind int

// Supported option kinds.
const (
	OptionKindAbsent OptionKind = iota
	OptionKindSingle
	OptionKindMany
	OptionKindFlag
)

// OptionValue is a tagged variant holding nothing, a string, a string sequence, or a boolean.
type OptionValue struct {
	kind   OptionKind
	single string
	many   []string
	flag   bool
}

// AbsentOption returns an OptionValue that renders nothing.
func AbsentOption() OptionValue {
	return OptionValue{kind: OptionKindAbsent}
}

// SingleOption wraps a single string value.
func SingleOption(value string) OptionValue {
	return OptionValue{kind: OptionKindSingle, single: value}
}

// ManyOption wraps an ordered sequence of string values.
func ManyOption(values ...string) OptionValue {
	return OptionValue{kind: OptionKindMany, many: append([]string{}, values...)}
}

// FlagOption wraps a boolean value.
func FlagOption(value bool) OptionValue {
	return OptionValue{kind: OptionKindFlag, flag: value}
}

// Kind reports the variant held by the value.
func (value OptionValue) Kind() OptionKind {
	return value.kind
}

// IsAbsent reports whether the value renders nothing.
func (value OptionValue) IsAbsent() bool {
	return value.kind == OptionKindAbsent
}

// Tokens returns the rendered value tokens in order.
// Flag renders its literal boolean; Absent renders nothing.
func (value OptionValue) Tokens() []string {
	switch value.kind {
	case OptionKindSingle:
		return []string{value.single}
	case OptionKindMany:
		return append([]string{}, value.many...)
	case OptionKindFlag:
		return []string{strconv.FormatBool(value.flag)}
	case OptionKindAbsent:
		return nil
	}
	return nil
}

// Options maps option names to their values.
type Options map[string]OptionValue

// Clone returns an independent copy of the options.
func (options Options) Clone() Options {
	cloned := make(Options, len(options))
	for optionName, optionValue := range options {
		cloned[optionName] = optionValue
	}
	return cloned
}

// Normalized returns a copy keyed by canonical kebab-case names, so roleArn and
// role-arn address the same option. Blank names are dropped. When two spellings
// collide within one map, the spelling that sorts last wins.
func (options Options) Normalized() Options {
	normalized := make(Options, len(options))
	for _, optionName := range options.sortedNames() {
		canonicalName := normalizeOptionName(optionName)
		if len(canonicalName) == 0 {
			continue
		}
		normalized[canonicalName] = options[optionName]
	}
	return normalized
}

// Merge returns normalized options with every non-absent override applied.
// Keys are compared by canonical name, so an override always replaces the
// base value regardless of how either side spells it.
func (options Options) Merge(overrides Options) Options {
	merged := options.Normalized()
	for optionName, optionValue := range overrides.Normalized() {
		if optionValue.IsAbsent() {
			continue
		}
		merged[optionName] = optionValue
	}
	return merged
}

// Get returns the named value, or an absent value when it is not set.
func (options Options) Get(optionName string) OptionValue {
	optionValue, exists := options[optionName]
	if !exists {
		return AbsentOption()
	}
	return optionValue
}

func (options Options) sortedNames() []string {
	optionNames := make([]string, 0, len(options))
	for optionName := range options {
		optionNames = append(optionNames, optionName)
	}
	sort.Strings(optionNames)
	return optionNames
}
