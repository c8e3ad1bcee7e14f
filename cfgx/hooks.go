package cfgx

import (
	"encoding"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultDecodeHooks returns the standard hook set: durations and text unmarshalers.
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		DurationHook(),
		TextUnmarshalerHook(),
	}
}

// DurationHook converts strings such as "5s" into time.Duration.
func DurationHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToTimeDurationHookFunc()
}

// TextUnmarshalerHook feeds string input to targets implementing
// encoding.TextUnmarshaler, so declaration enums can normalise their own spelling.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaller.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}
