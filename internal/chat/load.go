package chat

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a conversation from a JSON or YAML file.
// See DecodeConversation for the accepted shapes.
func LoadFile(path string) (Conversation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Conversation{}, err
	}
	conv, err := DecodeConversation(raw)
	if err != nil {
		return Conversation{}, fmt.Errorf("%s: %w", path, err)
	}
	return conv, nil
}

// DecodeConversation accepts either a bare messages array or an object with
// "messages" and optional "tools" fields. Input starting with '[' or '{' is
// decoded as JSON, anything else as YAML.
func DecodeConversation(raw []byte) (Conversation, error) {
	payload, err := decodeDocument(raw)
	if err != nil {
		return Conversation{}, fmt.Errorf("parse conversation: %w", err)
	}
	switch v := payload.(type) {
	case []any:
		msgs, err := decodeMessages(v)
		return Conversation{Messages: msgs}, err
	case Object:
		var conv Conversation
		msgs, ok := v.Get("messages")
		if !ok {
			return conv, fmt.Errorf("conversation object missing \"messages\" field")
		}
		list, ok := msgs.([]any)
		if !ok {
			return conv, fmt.Errorf("messages field must be an array")
		}
		if conv.Messages, err = decodeMessages(list); err != nil {
			return conv, err
		}
		if tools, ok := v.Get("tools"); ok && tools != nil {
			if conv.Tools, err = decodeTools(tools); err != nil {
				return conv, err
			}
		}
		return conv, nil
	default:
		return Conversation{}, fmt.Errorf("conversation must be an array or object")
	}
}

// DecodeTools accepts either a tools array or an object with a "tools" field.
func DecodeTools(raw []byte) ([]ToolDefinition, error) {
	payload, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("parse tools: %w", err)
	}
	if obj, ok := payload.(Object); ok {
		tools, ok := obj.Get("tools")
		if !ok {
			return nil, fmt.Errorf("tools object missing \"tools\" field")
		}
		payload = tools
	}
	return decodeTools(payload)
}

func decodeDocument(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return DecodeJSONValue(trimmed)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return yamlValue(&doc)
}

func decodeTools(v any) ([]ToolDefinition, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("tools must be an array")
	}
	tools := make([]ToolDefinition, 0, len(list))
	for i, item := range list {
		if _, ok := item.(Object); !ok {
			return nil, fmt.Errorf("tool %d must be an object", i)
		}
		var tool ToolDefinition
		if err := remarshal(item, &tool); err != nil {
			return nil, fmt.Errorf("decode tool %d: %w", i, err)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

func decodeMessages(items []any) ([]Message, error) {
	msgs := make([]Message, 0, len(items))
	for i, item := range items {
		var msg Message
		if err := remarshal(item, &msg); err != nil {
			return nil, fmt.Errorf("decode message %d: %w", i, err)
		}
		if msg.Role == "" {
			return nil, fmt.Errorf("message %d has no role", i)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// remarshal decodes a generic document value into dst through JSON.
func remarshal(v, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(dst)
}
