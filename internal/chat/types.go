// Package chat holds the conversation data model shared by the renderer,
// the session layer and the HTTP API, together with the normalizer that
// turns editor-facing records into the shape chat templates expect.
package chat

import (
	"fmt"

	"github.com/goccy/go-json"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleDeveloper = "developer"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Roles lists the roles an editor may assign, in display order.
var Roles = []string{RoleSystem, RoleUser, RoleDeveloper, RoleAssistant, RoleTool}

// Message is one conversation turn.
// A nil Content means the turn carries only structured fields.
type Message struct {
	Role             string     `json:"role" yaml:"role"`
	Content          *string    `json:"content" yaml:"content"`
	Name             string     `json:"name,omitempty" yaml:"name,omitempty"`
	ReasoningContent string     `json:"reasoning_content,omitempty" yaml:"reasoning_content,omitempty"`
	ToolCalls        []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation recorded on an assistant turn.
type ToolCall struct {
	Type     string       `json:"type" yaml:"type"`
	Function FunctionCall `json:"function" yaml:"function"`
}

// FunctionCall names the invoked function. Arguments is whatever the editor
// holds (a JSON string or an object); after Normalize it is always an
// Object.
type FunctionCall struct {
	Name      string `json:"name" yaml:"name"`
	Arguments any    `json:"arguments" yaml:"arguments"`
}

// UnmarshalJSON decodes arguments with DecodeJSONValue so object arguments
// keep their member order.
func (f *FunctionCall) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.Arguments = nil
	if len(raw.Arguments) == 0 {
		return nil
	}
	args, err := DecodeJSONValue(raw.Arguments)
	if err != nil {
		return fmt.Errorf("arguments: %w", err)
	}
	f.Arguments = args
	return nil
}

// ToolDefinition is a function tool offered to the model. Templates see it
// as {"type": "function", "function": {"name": ..., "description": ...,
// "parameters": {...}}}, with parameters in the order they were written.
type ToolDefinition struct {
	Type     string       `json:"type" yaml:"type"`
	Function ToolFunction `json:"function" yaml:"function"`
}

type ToolFunction struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  *Object `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Conversation is a message sequence plus the tool definitions offered to
// the model.
type Conversation struct {
	Messages []Message        `json:"messages" yaml:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// Text returns the content, or "" when the content is absent.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// HasContent reports whether the message carries non-empty content.
func (m Message) HasContent() bool {
	return m.Content != nil && *m.Content != ""
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Content != nil {
		s := *m.Content
		out.Content = &s
	}
	if m.ToolCalls != nil {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			tc.Function.Arguments = cloneValue(tc.Function.Arguments)
			out.ToolCalls[i] = tc
		}
	}
	return out
}

// CloneMessages deep-copies a message slice.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

// CloneTools deep-copies a tool definition slice.
func CloneTools(tools []ToolDefinition) []ToolDefinition {
	if tools == nil {
		return nil
	}
	out := make([]ToolDefinition, len(tools))
	for i, t := range tools {
		if t.Function.Parameters != nil {
			params := t.Function.Parameters.Clone()
			t.Function.Parameters = &params
		}
		out[i] = t
	}
	return out
}

// Ptr returns a pointer to s, for building messages with content.
func Ptr(s string) *string { return &s }

func cloneValue(v any) any {
	switch t := v.(type) {
	case Object:
		return t.Clone()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
