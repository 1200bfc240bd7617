package chat

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrArgumentParse reports tool call arguments that are not a JSON object.
var ErrArgumentParse = errors.New("tool call arguments are not a JSON object")

// Normalize returns a deep copy of msgs in which every tool call carries
// structured arguments. Arguments that cannot be parsed become an empty
// Object; the rest of the conversation is left untouched. The input is not
// modified.
func Normalize(msgs []Message) []Message {
	out := CloneMessages(msgs)
	for i := range out {
		for j := range out[i].ToolCalls {
			args, err := ParseArguments(out[i].ToolCalls[j].Function.Arguments)
			if err != nil {
				args = Object{}
			}
			out[i].ToolCalls[j].Function.Arguments = args
		}
	}
	return out
}

// ParseArguments coerces an editor-side arguments value into an Object.
// Strings and byte slices are decoded as JSON, Go maps are taken in sorted
// key order, and other values go through a JSON round trip. A nil value is
// an empty Object.
func ParseArguments(v any) (Object, error) {
	switch t := v.(type) {
	case nil:
		return Object{}, nil
	case Object:
		return t.Clone(), nil
	case map[string]any:
		return ObjectFromMap(t), nil
	case string:
		return decodeObject([]byte(t))
	case []byte:
		return decodeObject(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArgumentParse, err)
		}
		return decodeObject(raw)
	}
}

func decodeObject(raw []byte) (Object, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrArgumentParse)
	}
	v, err := DecodeJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentParse, err)
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrArgumentParse, v)
	}
	return obj, nil
}

// FormatArguments renders structured arguments as indented JSON for an
// editor; string arguments are returned as-is.
func FormatArguments(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		v = Object{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	var b bytes.Buffer
	if err := json.Indent(&b, raw, "", "  "); err != nil {
		return string(raw)
	}
	return b.String()
}
