package synthesize

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	optionAssignmentSeparatorConstant          = "="
	optionDecoderCreationErrorTemplateConstant = "unable to create option decoder: %w"
	optionDecodeErrorTemplateConstant          = "unable to decode options: %w"
	unsupportedOptionValueTemplateConstant     = "unsupported option value of type %T"
	unsupportedOptionElementTemplateConstant   = "unsupported option list element of type %T"
	emptyOptionAssignmentNameMessageConstant   = "option assignment must name an option"
)

var (
	optionValueType = reflect.TypeOf(OptionValue{})

	// ErrEmptyOptionAssignmentName indicates a key=value assignment without a key.
	ErrEmptyOptionAssignmentName = errors.New(emptyOptionAssignmentNameMessageConstant)
)

// DecodeOptions converts loosely typed options, as read from YAML or JSON, into Options.
// Strings become Single, booleans become Flag, lists become Many, numbers are rendered
// as Single, and nulls become Absent.
func DecodeOptions(rawOptions map[string]any) (Options, error) {
	decodedOptions := Options{}
	if len(rawOptions) == 0 {
		return decodedOptions, nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(optionValueDecodeHook),
		Result:     &decodedOptions,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(optionDecoderCreationErrorTemplateConstant, decoderError)
	}

	if decodeError := decoder.Decode(rawOptions); decodeError != nil {
		return nil, fmt.Errorf(optionDecodeErrorTemplateConstant, decodeError)
	}

	return decodedOptions, nil
}

// ParseOptionAssignments converts repeated key=value assignments into Options.
// A bare key is a true Flag; a key assigned more than once becomes Many in input order.
func ParseOptionAssignments(assignments []string) (Options, error) {
	parsedOptions := Options{}
	for _, assignment := range assignments {
		optionName, optionValue, hasValue := strings.Cut(assignment, optionAssignmentSeparatorConstant)
		trimmedName := strings.TrimSpace(optionName)
		if len(trimmedName) == 0 {
			return nil, ErrEmptyOptionAssignmentName
		}

		if !hasValue {
			parsedOptions[trimmedName] = FlagOption(true)
			continue
		}

		existingValue := parsedOptions.Get(trimmedName)
		switch existingValue.Kind() {
		case OptionKindAbsent:
			parsedOptions[trimmedName] = SingleOption(optionValue)
		case OptionKindSingle, OptionKindMany, OptionKindFlag:
			parsedOptions[trimmedName] = ManyOption(append(existingValue.Tokens(), optionValue)...)
		}
	}
	return parsedOptions, nil
}

func optionValueDecodeHook(_ reflect.Type, targetType reflect.Type, data any) (any, error) {
	if targetType != optionValueType {
		return data, nil
	}

	switch typedValue := data.(type) {
	case OptionValue:
		return typedValue, nil
	case string:
		return SingleOption(typedValue), nil
	case bool:
		return FlagOption(typedValue), nil
	case []string:
		return ManyOption(typedValue...), nil
	case []any:
		listValues := make([]string, 0, len(typedValue))
		for _, element := range typedValue {
			renderedElement, renderError := renderScalar(element)
			if renderError != nil {
				return nil, renderError
			}
			listValues = append(listValues, renderedElement)
		}
		return ManyOption(listValues...), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		renderedNumber, _ := renderScalar(typedValue)
		return SingleOption(renderedNumber), nil
	default:
		return nil, fmt.Errorf(unsupportedOptionValueTemplateConstant, data)
	}
}

func renderScalar(value any) (string, error) {
	switch typedValue := value.(type) {
	case string:
		return typedValue, nil
	case bool:
		return strconv.FormatBool(typedValue), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", typedValue), nil
	case float32:
		return strconv.FormatFloat(float64(typedValue), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(typedValue, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf(unsupportedOptionElementTemplateConstant, value)
	}
}
