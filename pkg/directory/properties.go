package directory

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Properties is an object's dynamic property bag. The schema is defined by
// the app and open-ended, so values stay dynamically typed: each value is one
// of string, float64, bool, []any, map[string]any, or nil, as produced by
// JSON decoding.
type Properties map[string]any

// String returns the property as a string, with ok reporting presence and
// type match.
func (p Properties) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Number returns the property as a float64.
func (p Properties) Number(key string) (float64, bool) {
	v, ok := p[key].(float64)
	return v, ok
}

// Bool returns the property as a bool.
func (p Properties) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// Strings returns the property as a slice of strings. Non-string elements
// cause ok to be false.
func (p Properties) Strings(key string) ([]string, bool) {
	raw, ok := p[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Decode maps the property bag onto a caller-defined struct for the subset of
// properties the caller does know the shape of. Field matching follows
// mapstructure conventions.
func (p Properties) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building property decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("decoding properties: %w", err)
	}
	return nil
}
