package tplparser

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/reasoning"
)

// FuncMap returns the functions available to chat templates: the sprig text
// library plus the chat-template helpers below.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["raise_exception"] = raiseException
	fm["tojson"] = toJSON
	fm["splitReasoning"] = splitReasoning
	fm["lastIndexOfRole"] = lastIndexOfRole
	fm["lastQueryIndex"] = lastQueryIndex
	return fm
}

// raiseException aborts template execution with msg.
func raiseException(msg string) (string, error) {
	return "", &RaisedError{Message: msg}
}

// toJSON serializes v. Optional arguments are ensureASCII (default true)
// and an indent width. A nil or missing indent gives the single-line
// layout; any integer, zero included, gives one member per line:
//
//	{{ tojson $tool }}
//	{{ tojson $args false }}
//	{{ tojson $schema true 2 }}
func toJSON(v any, opts ...any) (string, error) {
	enc := hubJSON{ensureASCII: true}
	if len(opts) > 2 {
		return "", fmt.Errorf("tojson: too many arguments (%d)", len(opts)+1)
	}
	if len(opts) > 0 && opts[0] != nil {
		b, ok := opts[0].(bool)
		if !ok {
			return "", fmt.Errorf("tojson: ensure_ascii must be a bool, got %T", opts[0])
		}
		enc.ensureASCII = b
	}
	if len(opts) > 1 && opts[1] != nil {
		rv := reflect.ValueOf(opts[1])
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			enc.pretty = true
			enc.indent = int(rv.Int())
		default:
			return "", fmt.Errorf("tojson: indent must be an integer, got %T", opts[1])
		}
	}
	return enc.encode(v)
}

func splitReasoning(explicit, content string) reasoning.Parts {
	return reasoning.Resolve(explicit, content)
}

// lastIndexOfRole returns the index of the last message with role, or -1.
func lastIndexOfRole(msgs []chat.Message, role string) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return i
		}
	}
	return -1
}

// lastQueryIndex returns the index of the last user message that is a real
// query rather than a wrapped tool response, or -1.
func lastQueryIndex(msgs []chat.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role != chat.RoleUser {
			continue
		}
		text := m.Text()
		if strings.HasPrefix(text, "<tool_response>") && strings.HasSuffix(text, "</tool_response>") {
			continue
		}
		return i
	}
	return -1
}
